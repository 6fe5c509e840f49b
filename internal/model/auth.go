package model

// AuthRequest types
type LoginRequest struct {
	Usuario  string `json:"usuario" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Nombre   string `json:"nombre" binding:"required"`
	Usuario  string `json:"usuario" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
	Foto     string `json:"foto"`
}

// AuthResponse types
type TokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
