package requests

import (
	"context"
	"database/sql"
	"strings"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = ?)`
	var ok bool
	if err := s.db.QueryRowContext(ctx, q, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (s *Store) Insert(ctx context.Context, r *Request) error {
	const q = `INSERT INTO requests (description, requester_id, created_at) VALUES (?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q, r.Description, r.RequesterID, r.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.RequestID = id
	return nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*Request, error) {
	const q = `SELECT request_id, description, requester_id, created_at FROM requests WHERE request_id = ?`
	var r Request
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&r.RequestID, &r.Description, &r.RequesterID, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) ListByRequester(ctx context.Context, requesterID int64) ([]Request, error) {
	const q = `
	SELECT request_id, description, requester_id, created_at
	FROM requests WHERE requester_id = ? ORDER BY created_at DESC`
	return s.queryRequests(ctx, q, requesterID)
}

func (s *Store) ListOthers(ctx context.Context, requesterID int64, limit, offset int) ([]Request, error) {
	const q = `
	SELECT request_id, description, requester_id, created_at
	FROM requests WHERE requester_id <> ?
	ORDER BY created_at DESC
	LIMIT ? OFFSET ?`
	return s.queryRequests(ctx, q, requesterID, limit, offset)
}

func (s *Store) queryRequests(ctx context.Context, q string, args ...any) ([]Request, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.RequestID, &r.Description, &r.RequesterID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]ItemInRequest, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}

	// IN句はID数ぶんプレースホルダを並べる
	placeholders := strings.Repeat("?,", len(requestIDs))
	placeholders = placeholders[:len(placeholders)-1]
	q := `
	SELECT item_id, name, description, available, request_id, owner_id
	FROM items WHERE request_id IN (` + placeholders + `)`

	args := make([]any, 0, len(requestIDs))
	for _, id := range requestIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemInRequest
	for rows.Next() {
		var it ItemInRequest
		if err := rows.Scan(&it.ItemID, &it.Name, &it.Description, &it.Available, &it.RequestID, &it.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
