package entity

// Category and Genre share the same shape: a display name and a unique slug.
type Category struct {
	Base
	Name string `db:"name"`
	Slug string `db:"slug"`
}

type Genre struct {
	Base
	Name string `db:"name"`
	Slug string `db:"slug"`
}
