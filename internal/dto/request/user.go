package request

type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,max=150,username,notme"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// UpdateUserRequest is shared by the admin endpoint and /users/me.
type UpdateUserRequest struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,max=150,username,notme"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=user moderator admin"`
}
