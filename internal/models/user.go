package models

// RoleAdmin is the only role the client treats specially.
const RoleAdmin = "admin"

// User represents the account returned by the auth endpoints.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the user holds the admin role. A nil user is not an admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// EntityID implements Entity.
func (u User) EntityID() string { return u.ID }

// Validate checks the fields the client relies on.
func (u *User) Validate() error {
	if u == nil {
		return &ValidationError{Field: "user", Message: "is missing"}
	}
	if u.ID == "" {
		return &ValidationError{Field: "user.id", Message: "is required"}
	}
	if u.Email == "" {
		return &ValidationError{Field: "user.email", Message: "is required"}
	}
	return nil
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the body of a successful login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Validate requires both halves of the session.
func (r *AuthResponse) Validate() error {
	if r.Token == "" {
		return &ValidationError{Field: "token", Message: "is required"}
	}
	return r.User.Validate()
}

// RegisterResponse is the body of a successful registration.
type RegisterResponse struct {
	User *User `json:"user,omitempty"`
}

// Validate only checks the user when the server sent one.
func (r *RegisterResponse) Validate() error {
	if r.User == nil {
		return nil
	}
	return r.User.Validate()
}
