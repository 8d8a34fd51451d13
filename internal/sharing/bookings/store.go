package bookings

import (
	"context"
	"database/sql"
	"strings"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// 他パッケージを import せず、必要な参照はSQLで直接読む

func (s *Store) GetUser(ctx context.Context, id int64) (*UserRef, error) {
	const q = `SELECT user_id, name, email FROM users WHERE user_id = ?`
	var u UserRef
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&u.UserID, &u.Name, &u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetItem(ctx context.Context, id int64) (*ItemRef, error) {
	const q = `SELECT item_id, name, description, available, owner_id, request_id FROM items WHERE item_id = ?`
	var it ItemRef
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&it.ItemID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID,
	); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Store) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	const q = `
	SELECT booking_id, booking_ulid, start_time, end_time, item_id, booker_id, status
	FROM bookings WHERE booking_id = ?`
	var b Booking
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&b.BookingID, &b.BookingULID, &b.Start, &b.End, &b.ItemID, &b.BookerID, &b.Status,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) Insert(ctx context.Context, b *Booking) error {
	const q = `
	INSERT INTO bookings (booking_ulid, start_time, end_time, item_id, booker_id, status)
	VALUES (?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, b.BookingULID, b.Start, b.End, b.ItemID, b.BookerID, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.BookingID = id
	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, bookingID int64, status Status) error {
	const q = `UPDATE bookings SET status = ? WHERE booking_id = ?`
	_, err := s.db.ExecContext(ctx, q, status, bookingID)
	return err
}

const detailColumns = `
	b.booking_id, b.booking_ulid, b.start_time, b.end_time, b.item_id, b.booker_id, b.status,
	i.item_id, i.name, i.description, i.available, i.owner_id, i.request_id,
	u.user_id, u.name, u.email`

func (s *Store) ListByBooker(ctx context.Context, bookerID int64, q ListQuery) ([]BookingDetail, error) {
	return s.list(ctx, `b.booker_id = ?`, bookerID, q)
}

func (s *Store) ListByItemOwner(ctx context.Context, ownerID int64, q ListQuery) ([]BookingDetail, error) {
	return s.list(ctx, `i.owner_id = ?`, ownerID, q)
}

func (s *Store) list(ctx context.Context, scopeCond string, scopeID int64, q ListQuery) ([]BookingDetail, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT` + detailColumns + `
	FROM bookings b
	JOIN items i ON i.item_id = b.item_id
	JOIN users u ON u.user_id = b.booker_id
	WHERE `)
	sb.WriteString(scopeCond)

	args := []any{scopeID}
	if q.Status != nil {
		sb.WriteString(` AND b.status = ?`)
		args = append(args, *q.Status)
	}
	if q.StartAfter != nil {
		sb.WriteString(` AND b.start_time > ?`)
		args = append(args, *q.StartAfter)
	}
	if q.EndBefore != nil {
		sb.WriteString(` AND b.end_time < ?`)
		args = append(args, *q.EndBefore)
	}
	if q.CurrentAt != nil {
		sb.WriteString(` AND b.start_time < ? AND b.end_time > ?`)
		args = append(args, *q.CurrentAt, *q.CurrentAt)
	}

	if q.OrderAsc {
		sb.WriteString(` ORDER BY b.start_time ASC`)
	} else {
		sb.WriteString(` ORDER BY b.start_time DESC`)
	}
	sb.WriteString(` LIMIT ? OFFSET ?`)
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookingDetail
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(
			&d.Booking.BookingID, &d.Booking.BookingULID, &d.Booking.Start, &d.Booking.End,
			&d.Booking.ItemID, &d.Booking.BookerID, &d.Booking.Status,
			&d.Item.ItemID, &d.Item.Name, &d.Item.Description, &d.Item.Available,
			&d.Item.OwnerID, &d.Item.RequestID,
			&d.Booker.UserID, &d.Booker.Name, &d.Booker.Email,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
