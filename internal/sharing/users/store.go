package users

import (
	"context"
	"database/sql"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Insert(ctx context.Context, name, email string) (int64, error) {
	const q = `INSERT INTO users (name, email) VALUES (?, ?)`
	res, err := s.db.ExecContext(ctx, q, name, email)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `SELECT user_id, name, email FROM users WHERE user_id = ?`
	var u User
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&u.UserID, &u.Name, &u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	const q = `SELECT user_id, name, email FROM users ORDER BY user_id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.UserID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) Update(ctx context.Context, u *User) error {
	const q = `UPDATE users SET name = ?, email = ? WHERE user_id = ?`
	_, err := s.db.ExecContext(ctx, q, u.Name, u.Email, u.UserID)
	return err
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	const q = `DELETE FROM users WHERE user_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
