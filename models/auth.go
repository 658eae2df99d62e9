package models

// LoginRequest is the body of POST auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the body of a successful POST auth/login. Both fields are
// required; the client treats a missing one as a protocol error.
type LoginResponse struct {
	Token   string       `json:"token"`
	User    *UserProfile `json:"user"`
	Message string       `json:"message,omitempty"`
}

// RegisterRequest is the body of POST auth/register.
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      Role   `json:"role" binding:"required,oneof=user seller"`
}

// RegisterResponse is the body of a successful POST auth/register.
type RegisterResponse struct {
	Message string `json:"message"`
}

// ErrorResponse covers the error bodies the API sends: a plain message, an
// error string, or 422 field errors.
type ErrorResponse struct {
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
