package items

import (
	"database/sql"

	"shareit-backend/internal/sharing/localtime"
)

// Item は items テーブルの1行を表す
type Item struct {
	ItemID      int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	// この item が応える request（任意）
	RequestID sql.NullInt64
}

// Comment は comments テーブルの1行（author 名はJOINで埋める）
type Comment struct {
	CommentID  int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	CreatedAt  localtime.LocalDateTime
}

// BookingBrief は item に添える直近/次回予約の要約
type BookingBrief struct {
	BookingID int64
	BookerID  int64
	Start     localtime.LocalDateTime
	End       localtime.LocalDateTime
}
