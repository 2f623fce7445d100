package entity

import (
	"time"
)

// Base is embedded by rows identified by a bigint identity column.
type Base struct {
	ID int64 `db:"id"`
}

// Publication is shared by reviews and comments.
type Publication struct {
	Base
	AuthorID int64     `db:"author_id"`
	Text     string    `db:"text"`
	PubDate  time.Time `db:"pub_date"`
}
