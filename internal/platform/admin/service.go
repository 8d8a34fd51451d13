package admin

import (
	"context"
	"database/sql"

	"shareit-backend/internal/platform/db"
)

// StatsResponse は運用確認用のスナップショット
type StatsResponse struct {
	Users            int64            `json:"users"`
	Items            int64            `json:"items"`
	AvailableItems   int64            `json:"availableItems"`
	Requests         int64            `json:"requests"`
	Comments         int64            `json:"comments"`
	BookingsByStatus map[string]int64 `json:"bookingsByStatus"`
}

type Service struct {
	db *sql.DB
}

func NewService(conn *sql.DB) *Service { return &Service{db: conn} }

// Stats は各テーブルの件数を読み取り専用Txでまとめて取る
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	out := &StatsResponse{BookingsByStatus: map[string]int64{}}

	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		counts := []struct {
			query string
			dst   *int64
		}{
			{`SELECT COUNT(*) FROM users`, &out.Users},
			{`SELECT COUNT(*) FROM items`, &out.Items},
			{`SELECT COUNT(*) FROM items WHERE available = TRUE`, &out.AvailableItems},
			{`SELECT COUNT(*) FROM requests`, &out.Requests},
			{`SELECT COUNT(*) FROM comments`, &out.Comments},
		}
		for _, c := range counts {
			if err := tx.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
				return err
			}
		}

		rows, err := tx.QueryContext(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var status string
			var n int64
			if err := rows.Scan(&status, &n); err != nil {
				return err
			}
			out.BookingsByStatus[status] = n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
