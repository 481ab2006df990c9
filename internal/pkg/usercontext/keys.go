package usercontext

// Locals keys shared between the middleware and handlers.
const (
	KeyUserContext = "USER_CONTEXT"
)

// Session keys.
const (
	SessionKeyUserID    = "USER_ID"
	SessionKeyUserName  = "USER_NAME"
	SessionKeyUserRole  = "USER_ROLE"
	SessionKeyHasAccess = "USER_HAS_ACCESS"
)
