package models

// User is a dashboard login account. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued JWT and the account it belongs to.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
