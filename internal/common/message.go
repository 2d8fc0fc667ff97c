package common

// Client-facing messages shared by the HTTP and gRPC transports. All token
// and account rejections use MsgInvalidToken so a caller cannot tell which
// check failed.
const (
	MsgInvalidPayload  = "Invalid payload."
	MsgUserExists      = "Sorry. That user already exists."
	MsgInvalidLogin    = "Invalid email or password."
	MsgInvalidToken    = "Provide a valid auth token."
	MsgForbidden       = "You do not have permission to do that."
	MsgUserNotFound    = "User does not exist"
	MsgInternal        = "Something went wrong."
	MsgTooManyRequests = "Too many requests. Please try again later."
	MsgRegistered      = "Successfully registered."
	MsgLoggedIn        = "Successfully logged in."
	MsgLoggedOut       = "Successfully logged out."
	MsgPong            = "pong!"
	MsgUserAdded       = "%s was added!"
)
