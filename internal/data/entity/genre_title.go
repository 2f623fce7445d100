package entity

type GenreTitle struct {
	Base
	GenreID int64 `db:"genre_id"`
	TitleID int64 `db:"title_id"`
}
