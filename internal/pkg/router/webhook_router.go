package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/GuiSantosdev/clivus/app/controllers"
)

type WebhookRouter struct {
}

func NewWebhookRouter() *WebhookRouter {
	return &WebhookRouter{}
}

// InstallRouter registers the provider callback endpoint. It is installed
// before the API router so the session and auth middlewares never run for
// webhook deliveries; providers authenticate with signatures, not sessions.
func (h WebhookRouter) InstallRouter(app *fiber.App) {
	app.Post("/api/webhooks/:provider", controllers.HandleProviderWebhook)
}
