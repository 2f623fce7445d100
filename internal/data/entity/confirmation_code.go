package entity

import (
	"time"
)

type ConfirmationCode struct {
	Base
	UserID    int64      `db:"user_id"`
	CodeHash  string     `db:"code_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
	CreatedAt time.Time  `db:"created_at"`
}
