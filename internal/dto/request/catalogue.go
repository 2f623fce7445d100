package request

// CategoryRequest creates a category; an empty slug is derived from the name.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"omitempty,max=50,slug"`
}

type GenreRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"omitempty,max=50,slug"`
}
