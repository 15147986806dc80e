package handler

type registerRequest struct {
	Name         string `json:"name" validate:"required,min=2"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6"`
	Organization string `json:"organization"`
	Position     string `json:"position"`
	Phone        string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    any    `json:"user"`
}
