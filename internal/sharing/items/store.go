package items

import (
	"context"
	"database/sql"
	"time"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) UserName(ctx context.Context, userID int64) (string, error) {
	const q = `SELECT name FROM users WHERE user_id = ?`
	var name string
	if err := s.db.QueryRowContext(ctx, q, userID).Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Store) Insert(ctx context.Context, it *Item) error {
	const q = `
	INSERT INTO items (name, description, available, owner_id, request_id)
	VALUES (?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.OwnerID, it.RequestID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ItemID = id
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	const q = `SELECT item_id, name, description, available, owner_id, request_id FROM items WHERE item_id = ?`
	var it Item
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&it.ItemID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID,
	); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Store) Update(ctx context.Context, it *Item) error {
	const q = `UPDATE items SET name = ?, description = ?, available = ? WHERE item_id = ?`
	_, err := s.db.ExecContext(ctx, q, it.Name, it.Description, it.Available, it.ItemID)
	return err
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM items WHERE item_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) ListByOwner(ctx context.Context, ownerID int64) ([]Item, error) {
	const q = `
	SELECT item_id, name, description, available, owner_id, request_id
	FROM items WHERE owner_id = ? ORDER BY item_id`
	return s.queryItems(ctx, q, ownerID)
}

// text は呼び出し側でケースフォールディング済み
func (s *Store) Search(ctx context.Context, text string) ([]Item, error) {
	const q = `
	SELECT item_id, name, description, available, owner_id, request_id
	FROM items
	WHERE available = TRUE
	  AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)
	ORDER BY item_id`
	pattern := "%" + text + "%"
	return s.queryItems(ctx, q, pattern, pattern)
}

func (s *Store) queryItems(ctx context.Context, q string, args ...any) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ItemID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ---- comments ----

func (s *Store) CommentsByItem(ctx context.Context, itemID int64) ([]Comment, error) {
	const q = `
	SELECT c.comment_id, c.text, c.item_id, c.author_id, u.name, c.created_at
	FROM comments c
	JOIN users u ON u.user_id = c.author_id
	WHERE c.item_id = ?
	ORDER BY c.created_at`
	rows, err := s.db.QueryContext(ctx, q, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		var cm Comment
		if err := rows.Scan(&cm.CommentID, &cm.Text, &cm.ItemID, &cm.AuthorID, &cm.AuthorName, &cm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

func (s *Store) InsertComment(ctx context.Context, cm *Comment) error {
	const q = `INSERT INTO comments (text, item_id, author_id, created_at) VALUES (?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, cm.Text, cm.ItemID, cm.AuthorID, cm.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	cm.CommentID = id
	return nil
}

// 利用が完了した予約があるか。status は見ない（期間だけで判定）
func (s *Store) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	const q = `
	SELECT EXISTS (
		SELECT 1 FROM bookings
		WHERE item_id = ? AND booker_id = ? AND end_time < ?
	)`
	var ok bool
	if err := s.db.QueryRowContext(ctx, q, itemID, bookerID, now).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// ---- booking annotations ----

// 直近の予約: start < now で start が最も遅いもの（ステータス不問）
func (s *Store) LastBooking(ctx context.Context, itemID int64, now time.Time) (*BookingBrief, error) {
	const q = `
	SELECT booking_id, booker_id, start_time, end_time
	FROM bookings
	WHERE item_id = ? AND start_time < ?
	ORDER BY start_time DESC
	LIMIT 1`
	return s.queryBrief(ctx, q, itemID, now)
}

// 次の予約: start > now で最も早いもの。却下済みは除く
func (s *Store) NextBooking(ctx context.Context, itemID int64, now time.Time) (*BookingBrief, error) {
	const q = `
	SELECT booking_id, booker_id, start_time, end_time
	FROM bookings
	WHERE item_id = ? AND start_time > ? AND status <> 'REJECTED'
	ORDER BY start_time ASC
	LIMIT 1`
	return s.queryBrief(ctx, q, itemID, now)
}

func (s *Store) queryBrief(ctx context.Context, q string, args ...any) (*BookingBrief, error) {
	var b BookingBrief
	err := s.db.QueryRowContext(ctx, q, args...).Scan(&b.BookingID, &b.BookerID, &b.Start, &b.End)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
