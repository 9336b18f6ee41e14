package contracts

// User is a platform account.
type User struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

// Organization groups agents and users under one audit namespace.
type Organization struct {
	OrgID     string `json:"org_id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// RegisterUserRequest is the body of POST /v1/auth/register.
type RegisterUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
	OrgName     string `json:"org_name,omitempty"`
}

// RegisterUserResponse carries the created account and its first token.
type RegisterUserResponse struct {
	User         User         `json:"user"`
	Organization Organization `json:"organization"`
	Token        string       `json:"token"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries a fresh bearer token.
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}
