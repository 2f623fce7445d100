package response

import "yamdb/internal/data/entity"

type TitleResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Year        int            `json:"year"`
	Description string         `json:"description"`
	Rating      *int           `json:"rating"`
	Category    *SlugResponse  `json:"category"`
	Genre       []SlugResponse `json:"genre"`
}

func TitleToResponse(title *entity.Title) TitleResponse {
	resp := TitleResponse{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Description: title.Description,
		Rating:      title.Rating,
		Genre:       make([]SlugResponse, 0, len(title.Genres)),
	}

	if title.Category != nil {
		category := CategoryToResponse(title.Category)
		resp.Category = &category
	}
	for _, genre := range title.Genres {
		resp.Genre = append(resp.Genre, GenreToResponse(genre))
	}

	return resp
}
