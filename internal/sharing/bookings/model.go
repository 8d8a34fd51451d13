package bookings

import (
	"database/sql"

	"shareit-backend/internal/sharing/localtime"
)

// Status は承認ワークフロー上の予約状態
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking may move from s to next.
// 現状は「同一状態への再遷移だけ禁止」の緩いポリシー。
// 厳格化するならここだけ直せばよい（WAITING→{APPROVED,REJECTED} のみ許可など）。
func (s Status) CanTransitionTo(next Status) bool {
	return s != next
}

// Booking は bookings テーブルの1行を表す
type Booking struct {
	BookingID   int64
	BookingULID string
	Start       localtime.LocalDateTime
	End         localtime.LocalDateTime
	ItemID      int64
	BookerID    int64
	Status      Status
}

// ItemRef は予約が参照する item の読み取り用スナップショット
type ItemRef struct {
	ItemID      int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   sql.NullInt64
}

// UserRef は予約者の読み取り用スナップショット
type UserRef struct {
	UserID int64
	Name   string
	Email  string
}

// BookingDetail は一覧・詳細取得用の非正規化ビュー（item と booker をJOIN済み）
type BookingDetail struct {
	Booking
	Item   ItemRef
	Booker UserRef
}
