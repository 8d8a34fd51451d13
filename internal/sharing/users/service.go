package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

// ===== Error model (items/bookings/requests と同型) =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}

// ===== Service =====

type UserStore interface {
	Insert(ctx context.Context, name, email string) (int64, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	store UserStore
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

func NewServiceWithStore(store UserStore) *Service {
	return &Service{store: store}
}

func (s *Service) CreateUser(ctx context.Context, in UserRequest) (UserResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return UserResponse{}, ErrInvalid("name and email are required")
	}

	id, err := s.store.Insert(ctx, in.Name, in.Email)
	if err != nil {
		// email は UNIQUE。重複は 1062 で検出する
		if isDuplicateKey(err) {
			return UserResponse{}, ErrConflict("email already in use")
		}
		return UserResponse{}, err
	}

	return UserResponse{ID: id, Name: in.Name, Email: in.Email}, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (UserResponse, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserResponse{}, ErrNotFound(fmt.Sprintf("user %d not found", id))
		}
		return UserResponse{}, err
	}
	return u.toDTO(), nil
}

func (s *Service) ListUsers(ctx context.Context) ([]UserResponse, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].toDTO())
	}
	return out, nil
}

// 部分更新: 空でないフィールドだけ反映する
func (s *Service) UpdateUser(ctx context.Context, id int64, patch UserRequest) (UserResponse, error) {
	old, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserResponse{}, ErrNotFound(fmt.Sprintf("user %d not found", id))
		}
		return UserResponse{}, err
	}

	if name := strings.TrimSpace(patch.Name); name != "" {
		old.Name = name
	}
	if email := strings.TrimSpace(patch.Email); email != "" && email != old.Email {
		old.Email = email
	}

	if err := s.store.Update(ctx, old); err != nil {
		if isDuplicateKey(err) {
			return UserResponse{}, ErrConflict("email already in use")
		}
		return UserResponse{}, err
	}
	return old.toDTO(), nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound(fmt.Sprintf("user %d not found", id))
	}
	return nil
}
