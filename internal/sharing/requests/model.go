package requests

import (
	"database/sql"

	"shareit-backend/internal/sharing/localtime"
)

// Request は requests テーブルの1行（「こういう item が欲しい」という募集）
type Request struct {
	RequestID   int64
	Description string
	RequesterID int64
	CreatedAt   localtime.LocalDateTime
}

// ItemInRequest は request に応えて出品された item の要約
type ItemInRequest struct {
	ItemID      int64
	Name        string
	Description string
	Available   bool
	RequestID   sql.NullInt64
	OwnerID     int64
}
