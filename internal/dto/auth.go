package dto

type RegisterRequestDTO struct {
	Login    string `json:"login" example:"alice"`
	Password string `json:"password" example:"s3cret"`
}

type LoginRequestDTO struct {
	Login    string `json:"login" example:"alice"`
	Password string `json:"password" example:"s3cret"`
}

type TokenResponseDTO struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiJ9..."`
}
