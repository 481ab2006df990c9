package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/GuiSantosdev/clivus/app/models"
	"github.com/GuiSantosdev/clivus/internal/pkg/database"
	"github.com/GuiSantosdev/clivus/internal/pkg/session"
	"github.com/GuiSantosdev/clivus/internal/pkg/usercontext"
)

// parseSessionUserID recovers the user id the login handlers stored. The
// session helper only carries string values, so the id round-trips through
// its decimal form; a raw uint from older sessions is accepted too.
func parseSessionUserID(value interface{}) (uint, bool) {
	switch v := value.(type) {
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return 0, false
		}
		return uint(id), true
	case uint:
		return v, v != 0
	}
	return 0, false
}

// UserContextMiddleware sets up the complete user context for every request.
// Role and entitlement are read from the database, not the session, so a
// webhook-granted access flag is visible on the user's next request.
func UserContextMiddleware(c *fiber.Ctx) error {
	anonymous := usercontext.UserContext{IsLoggedIn: false}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	id, ok := parseSessionUserID(sess.Get(usercontext.SessionKeyUserID))
	if !ok {
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	var user models.User
	if err := database.GetDB().First(&user, id).Error; err != nil {
		// Session references a user that no longer exists
		c.Locals(usercontext.KeyUserContext, anonymous)
		return c.Next()
	}

	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     user.ID,
		Name:       user.Name,
		Role:       user.Role,
		HasAccess:  user.HasAccess,
		IsLoggedIn: true,
	})

	return c.Next()
}
