package request

type CreateTitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        *int     `json:"year" validate:"required,min=-32768,notfutureyear"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required,max=50"`
	Genre       []string `json:"genre" validate:"required,min=1,dive,required,max=50"`
}

// UpdateTitleRequest is a partial update; a present genre list replaces the links.
type UpdateTitleRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=256"`
	Year        *int     `json:"year,omitempty" validate:"omitempty,min=-32768,notfutureyear"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,min=1,max=50"`
	Genre       []string `json:"genre,omitempty" validate:"omitempty,min=1,dive,required,max=50"`
}

type TitleListRequest struct {
	PaginatedRequest
	Category string `json:"category"`
	Genre    string `json:"genre"`
	Name     string `json:"name"`
	Year     *int   `json:"year"`
}
