package model

import "errors"

// SessionUser is the serializable projection of an identity-provider account
// kept in application state. It carries no provider handles, so it can be
// persisted and rehydrated as-is.
type SessionUser struct {
	UID         string  `json:"uid"`
	Email       string  `json:"email"`
	DisplayName string  `json:"displayName"`
	PhotoURL    *string `json:"photoURL"`
}

// Profile is the user document written to the "users" collection at signup.
// It has no lifecycle of its own beyond that write.
type Profile struct {
	UID         string `db:"uid" json:"uid"`
	Email       string `db:"email" json:"email"`
	DisplayName string `db:"display_name" json:"displayName"`
	CreatedAt   string `json:"createdAt"`
}

// Account is the identity provider's own record for an email/password user.
type Account struct {
	UID            string  `db:"uid"`
	Email          string  `db:"email"`
	PasswordHashed string  `db:"password_hashed"`
	DisplayName    *string `db:"display_name"`
	PhotoURL       *string `db:"photo_url"`
}

// SignupRequest is the request body for creating an account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the request body for signing in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

var (
	// ErrInvalidCredentials is returned when email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailExists is returned when the email is already registered.
	ErrEmailExists = errors.New("email already registered")

	// ErrNotSignedIn is returned when an operation requires a session.
	ErrNotSignedIn = errors.New("no user is signed in")
)
