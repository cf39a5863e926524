package dto

// CreateUserRequest entrada para POST /usuarios (senha en texto, se hashea en el caso de uso).
type CreateUserRequest struct {
	Name     string `json:"nome" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required,max=72"`
}

// UserResponse salida de un usuario (sin credencial).
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
}

// LoginRequest entrada para POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"senha" validate:"required"`
}

// LoginResponse salida del login: datos del usuario y token JWT si está configurado.
type LoginResponse struct {
	UserResponse
	Token string `json:"token,omitempty"`
}
