package auth

import (
	"context"
	"database/sql"
	"errors"
)

// AdminAccount は admin_accounts テーブルの1行。
// 共有APIのユーザー (users) とは別系統の運用用アカウント。
type AdminAccount struct {
	AccountID    string
	PasswordHash string
	Role         string
	IsDisabled   bool
}

type AccountStore interface {
	GetByID(ctx context.Context, id string) (*AdminAccount, error)
	Create(ctx context.Context, a *AdminAccount) error
	Delete(ctx context.Context, id string) (int64, error)
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) GetByID(ctx context.Context, id string) (*AdminAccount, error) {
	const q = `SELECT account_id, password_hash, role, is_disabled FROM admin_accounts WHERE account_id = ?`
	var a AdminAccount
	err := s.db.QueryRowContext(ctx, q, id).Scan(&a.AccountID, &a.PasswordHash, &a.Role, &a.IsDisabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (s *Store) Create(ctx context.Context, a *AdminAccount) error {
	const q = `INSERT INTO admin_accounts (account_id, password_hash, role, is_disabled) VALUES (?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, a.AccountID, a.PasswordHash, a.Role, a.IsDisabled)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM admin_accounts WHERE account_id = ?`
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
