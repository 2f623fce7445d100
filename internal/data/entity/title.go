package entity

type Title struct {
	Base
	Name        string `db:"name"`
	Year        int    `db:"year"`
	Description string `db:"description"`
	CategoryID  *int64 `db:"category_id"`

	// Rating is the truncated average review score, nil without reviews.
	Rating   *int      `db:"rating"`
	Category *Category `db:"-"`
	Genres   []*Genre  `db:"-"`
}

// TitleFilter narrows title listings.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}
