package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/GuiSantosdev/clivus/app/controllers"
	"github.com/GuiSantosdev/clivus/internal/pkg/middleware"
	"github.com/GuiSantosdev/clivus/internal/pkg/session"
)

type ApiRouter struct {
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	api := app.Group("/api", limiter.New(limiter.Config{
		Max: 120,
	}))

	h.registerPublicRoutes(api)
	h.registerUserRoutes(api)
	h.registerAdminRoutes(api)
}

func (h ApiRouter) registerPublicRoutes(api fiber.Router) {
	api.Post("/register", controllers.HandleRegister)
	api.Post("/login", controllers.HandleLogin)
	api.Post("/logout", controllers.HandleLogout)

	api.Get("/plans", controllers.HandleListPlans)
	api.Get("/gateways", controllers.HandleListGateways)

	api.Get("/ads/serve/:placement", controllers.HandleServeAd)
	api.Post("/ads/:id/click", controllers.HandleAdClick)
}

func (h ApiRouter) registerUserRoutes(api fiber.Router) {
	user := api.Group("", middleware.RequireAuth)

	user.Get("/me", controllers.HandleMe)
	user.Post("/checkout", controllers.HandleStartCheckout)

	user.Get("/transactions", controllers.HandleListTransactions)
	user.Post("/transactions", controllers.HandleCreateTransaction)
	user.Put("/transactions/:id", controllers.HandleUpdateTransaction)
	user.Delete("/transactions/:id", controllers.HandleDeleteTransaction)
	user.Post("/transactions/:id/attachment", controllers.HandleUploadAttachment)
	user.Get("/transactions/:id/attachment", controllers.HandleGetAttachmentURL)

	user.Get("/categories", controllers.HandleListCategories)
	user.Post("/categories", controllers.HandleCreateCategory)
	user.Delete("/categories/:id", controllers.HandleDeleteCategory)

	user.Get("/dashboard/summary", controllers.HandleDashboard)

	user.Get("/budgets", controllers.HandleListBudgets)
	user.Put("/budgets", controllers.HandleUpsertBudget)
	user.Delete("/budgets/:id", controllers.HandleDeleteBudget)
}

func (h ApiRouter) registerAdminRoutes(api fiber.Router) {
	admin := api.Group("/admin", middleware.RequireAdmin)

	admin.Get("/gateways", controllers.HandleAdminListGateways)
	admin.Put("/gateways/:name", controllers.HandleAdminUpsertGateway)
	admin.Get("/gateways/check-config", controllers.HandleAdminGatewayConfigCheck)

	admin.Get("/plans", controllers.HandleAdminListPlans)
	admin.Post("/plans", controllers.HandleAdminCreatePlan)
	admin.Put("/plans/:id", controllers.HandleAdminUpdatePlan)
	admin.Delete("/plans/:id", controllers.HandleAdminDeletePlan)

	admin.Get("/ads", controllers.HandleAdminListAds)
	admin.Post("/ads", controllers.HandleAdminCreateAd)
	admin.Put("/ads/:id", controllers.HandleAdminUpdateAd)
	admin.Delete("/ads/:id", controllers.HandleAdminDeleteAd)

	admin.Get("/users", controllers.HandleAdminListUsers)
	admin.Post("/users", controllers.HandleAdminCreateUser)
	admin.Put("/users/:id", controllers.HandleAdminUpdateUser)
}
