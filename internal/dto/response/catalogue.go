package response

import "yamdb/internal/data/entity"

// SlugResponse is the public shape of both categories and genres.
type SlugResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func CategoryToResponse(category *entity.Category) SlugResponse {
	return SlugResponse{Name: category.Name, Slug: category.Slug}
}

func GenreToResponse(genre *entity.Genre) SlugResponse {
	return SlugResponse{Name: genre.Name, Slug: genre.Slug}
}
