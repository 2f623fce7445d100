package entity

type Review struct {
	Publication
	TitleID int64 `db:"title_id"`
	Score   int   `db:"score"` // 1-10

	AuthorUsername string `db:"author_username"`
}

type Comment struct {
	Publication
	ReviewID int64 `db:"review_id"`

	AuthorUsername string `db:"author_username"`
}
