package request

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,max=150,username,notme"`
}

type TokenRequest struct {
	Username         string `json:"username" validate:"required,max=150,username,notme"`
	ConfirmationCode string `json:"confirmation_code" validate:"required,max=256"`
}
