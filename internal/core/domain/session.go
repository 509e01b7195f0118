package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the authorization level carried by the access token.
type Role string

const (
	RoleGuest Role = "GUEST"
	RoleVIP   Role = "VIP"
)

var (
	// ErrUnauthenticated means no access token is available; callers send the
	// user to the login page.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the API rejected the call for the current role. The
	// session is kept.
	ErrForbidden = errors.New("access forbidden")
	// ErrRequestFailed covers every other failure, including a second 401
	// after a refresh. The session is cleared.
	ErrRequestFailed = errors.New("request failed")

	ErrNoToken            = errors.New("no access token stored")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ParseRole maps a claim value to a Role. Unknown values fall back to guest.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleVIP)) {
		return RoleVIP
	}
	return RoleGuest
}

// CanMutate reports whether the role may create, toggle or delete todos.
func (r Role) CanMutate() bool {
	return r == RoleVIP
}

// Cookie is a name/value pair set by the API, usually the HTTP-only refresh
// cookie.
type Cookie struct {
	Name  string `json:"name" bson:"name"`
	Value string `json:"value" bson:"value"`
}

// Credentials is everything needed to call the API on behalf of a user.
type Credentials struct {
	AccessToken string   `json:"access_token" bson:"access_token"`
	Cookies     []Cookie `json:"cookies,omitempty" bson:"cookies,omitempty"`
}

// SessionState is the persisted form of a browsing-context session.
type SessionState struct {
	Credentials Credentials `json:"credentials" bson:"credentials"`
	// Alert is a one-shot message shown on the next page render.
	Alert     string    `json:"alert,omitempty" bson:"alert,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
