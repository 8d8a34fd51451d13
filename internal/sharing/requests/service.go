package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shareit-backend/internal/sharing/localtime"
)

// ===== Error model (users/items/bookings と同型) =====
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

// ===== Service =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type RequestStore interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
	Insert(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]Request, error)
	// requesterID 以外のユーザーの request を created 降順で
	ListOthers(ctx context.Context, requesterID int64, limit, offset int) ([]Request, error)
	ItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]ItemInRequest, error)
}

type Service struct {
	store RequestStore
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

func NewServiceWith(store RequestStore, clock Clock) *Service {
	return &Service{store: store, clock: clock}
}

func (s *Service) CreateRequest(ctx context.Context, in CreateRequestRequest, userID int64) (PostRequestResponse, error) {
	if strings.TrimSpace(in.Description) == "" {
		return PostRequestResponse{}, ErrInvalid("description must not be blank")
	}
	if err := s.checkUserExists(ctx, userID); err != nil {
		return PostRequestResponse{}, err
	}

	r := &Request{
		Description: in.Description,
		RequesterID: userID,
		CreatedAt:   localtime.Of(s.clock.Now()),
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return PostRequestResponse{}, err
	}
	return PostRequestResponse{ID: r.RequestID, Description: r.Description, Created: r.CreatedAt}, nil
}

// 自分の request 一覧（新しい順）。応えた item も添える
func (s *Service) FindAllByUserID(ctx context.Context, userID int64) ([]RequestWithItemsResponse, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}
	list, err := s.store.ListByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, list)
}

// 他ユーザーの request 一覧（from/size はページ番号方式、bookings と同じ）
func (s *Service) FindAll(ctx context.Context, from, size int, userID int64) ([]RequestWithItemsResponse, error) {
	if from < 0 {
		return nil, ErrInvalid("from must be >= 0")
	}
	if size <= 0 {
		return nil, ErrInvalid("size must be > 0")
	}
	if err := s.checkUserExists(ctx, userID); err != nil {
		return nil, err
	}
	offset := (from / size) * size
	list, err := s.store.ListOthers(ctx, userID, size, offset)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, list)
}

func (s *Service) FindByID(ctx context.Context, requestID, userID int64) (RequestWithItemsResponse, error) {
	if err := s.checkUserExists(ctx, userID); err != nil {
		return RequestWithItemsResponse{}, err
	}
	r, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RequestWithItemsResponse{}, ErrNotFound(fmt.Sprintf("request %d not found", requestID))
		}
		return RequestWithItemsResponse{}, err
	}
	out, err := s.withItems(ctx, []Request{*r})
	if err != nil {
		return RequestWithItemsResponse{}, err
	}
	return out[0], nil
}

// ---------- helpers ----------

func (s *Service) checkUserExists(ctx context.Context, userID int64) error {
	ok, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound(fmt.Sprintf("user %d not found", userID))
	}
	return nil
}

func (s *Service) withItems(ctx context.Context, list []Request) ([]RequestWithItemsResponse, error) {
	out := make([]RequestWithItemsResponse, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].RequestID)
	}
	items, err := s.store.ItemsByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// request_id ごとにまとめる
	grouped := make(map[int64][]ItemInRequestDTO, len(list))
	for i := range items {
		if !items[i].RequestID.Valid {
			continue
		}
		rid := items[i].RequestID.Int64
		grouped[rid] = append(grouped[rid], itemInRequestDTO(&items[i]))
	}

	for i := range list {
		r := &list[i]
		dto := RequestWithItemsResponse{
			ID:          r.RequestID,
			Description: r.Description,
			Created:     r.CreatedAt,
			Items:       grouped[r.RequestID],
		}
		if dto.Items == nil {
			dto.Items = []ItemInRequestDTO{}
		}
		out = append(out, dto)
	}
	return out, nil
}
