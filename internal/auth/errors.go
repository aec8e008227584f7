package auth

import "strings"

// Provider error codes. Handlers translate these into the human messages
// the storefront shows; anything unrecognized passes through unchanged.
const (
	CodeWeakPassword      = "auth/weak-password"
	CodeEmailAlreadyInUse = "auth/email-already-in-use"
	CodeInvalidEmail      = "auth/invalid-email"
	CodeWrongPassword     = "auth/wrong-password"
	CodeUserNotFound      = "auth/user-not-found"
)

// Error is an authentication failure tagged with a provider code.
type Error struct {
	Code string
}

func (e *Error) Error() string {
	return e.Code
}

func newError(code string) *Error {
	return &Error{Code: code}
}

// Translate rewrites a raw auth error message into its human form. Unknown
// messages are returned as-is rather than masked behind a generic line.
func Translate(msg string) string {
	switch {
	case strings.Contains(msg, "weak-password"):
		return "Password should be at least 6 characters."
	case strings.Contains(msg, "email-already-in-use"):
		return "This email is already registered. Try logging in instead."
	case strings.Contains(msg, "invalid-email"):
		return "Please enter a valid email address."
	case strings.Contains(msg, "wrong-password"):
		return "Incorrect password."
	case strings.Contains(msg, "user-not-found"):
		return "No account found with this email."
	default:
		return msg
	}
}
