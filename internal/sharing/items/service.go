package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"shareit-backend/internal/sharing/localtime"
)

// ===== Error model (users/bookings/requests と同型) =====
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

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// ItemStore は item カタログ＋コメント台帳の永続化操作。
// 予約の要約（last/next）も bookings テーブルをSQLで直接読む。
type ItemStore interface {
	UserName(ctx context.Context, userID int64) (string, error)
	Insert(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id int64) (int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]Item, error)
	Search(ctx context.Context, text string) ([]Item, error)

	CommentsByItem(ctx context.Context, itemID int64) ([]Comment, error)
	InsertComment(ctx context.Context, cm *Comment) error
	HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)

	LastBooking(ctx context.Context, itemID int64, now time.Time) (*BookingBrief, error)
	NextBooking(ctx context.Context, itemID int64, now time.Time) (*BookingBrief, error)
}

// ===== Service =====

// 検索語は Unicode ケースフォールディングで正規化してから照合する
var searchFolder = cases.Fold()

type Service struct {
	store ItemStore
	clock Clock
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db), clock: realClock{}}
}

func NewServiceWith(store ItemStore, clock Clock) *Service {
	return &Service{store: store, clock: clock}
}

func (s *Service) CreateItem(ctx context.Context, in CreateItemRequest, ownerID int64) (ItemResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Description) == "" || in.Available == nil {
		return ItemResponse{}, ErrInvalid("name, description and available are required")
	}
	if _, err := s.store.UserName(ctx, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ItemResponse{}, ErrNotFound(fmt.Sprintf("user %d not found", ownerID))
		}
		return ItemResponse{}, err
	}

	it := &Item{
		Name:        in.Name,
		Description: in.Description,
		Available:   *in.Available,
		OwnerID:     ownerID,
	}
	if in.RequestID != nil {
		it.RequestID = sql.NullInt64{Int64: *in.RequestID, Valid: true}
	}
	if err := s.store.Insert(ctx, it); err != nil {
		return ItemResponse{}, err
	}
	return itemDTO(it), nil
}

// 部分更新。所有者以外は 404
func (s *Service) UpdateItem(ctx context.Context, itemID, userID int64, patch UpdateItemRequest) (ItemResponse, error) {
	old, err := s.getItem(ctx, itemID)
	if err != nil {
		return ItemResponse{}, err
	}
	if err := checkOwner(userID, old); err != nil {
		return ItemResponse{}, err
	}

	if patch.Name != nil {
		old.Name = *patch.Name
	}
	if patch.Description != nil {
		old.Description = *patch.Description
	}
	if patch.Available != nil {
		old.Available = *patch.Available
	}
	if err := s.store.Update(ctx, old); err != nil {
		return ItemResponse{}, err
	}
	return itemDTO(old), nil
}

// 単一取得。所有者が見たときだけ lastBooking/nextBooking を添える
func (s *Service) GetItem(ctx context.Context, itemID, userID int64) (ItemResponse, error) {
	it, err := s.getItem(ctx, itemID)
	if err != nil {
		return ItemResponse{}, err
	}
	comments, err := s.store.CommentsByItem(ctx, itemID)
	if err != nil {
		return ItemResponse{}, err
	}

	dto := itemDTO(it)
	dto.Comments = commentDTOs(comments)

	if it.OwnerID == userID {
		if err := s.annotate(ctx, &dto); err != nil {
			return ItemResponse{}, err
		}
	}
	return dto, nil
}

// 自分の item 一覧。nextBooking の開始時刻昇順、予定なしは末尾
func (s *Service) GetAllItems(ctx context.Context, userID int64) ([]ItemResponse, error) {
	list, err := s.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ItemResponse, 0, len(list))
	for i := range list {
		comments, err := s.store.CommentsByItem(ctx, list[i].ItemID)
		if err != nil {
			return nil, err
		}
		dto := itemDTO(&list[i])
		dto.Comments = commentDTOs(comments)
		if err := s.annotate(ctx, &dto); err != nil {
			return nil, err
		}
		out = append(out, dto)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].NextBooking, out[j].NextBooking
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Start.Before(b.Start.Time)
		}
	})
	return out, nil
}

func (s *Service) DeleteItem(ctx context.Context, itemID, userID int64) error {
	it, err := s.getItem(ctx, itemID)
	if err != nil {
		return err
	}
	if err := checkOwner(userID, it); err != nil {
		return err
	}
	_, err = s.store.Delete(ctx, itemID)
	return err
}

// 空文字は空リスト。available な item の name/description を部分一致で探す
func (s *Service) SearchAvailableItems(ctx context.Context, text string) ([]ItemResponse, error) {
	if strings.TrimSpace(text) == "" {
		return []ItemResponse{}, nil
	}
	list, err := s.store.Search(ctx, searchFolder.String(text))
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, 0, len(list))
	for i := range list {
		out = append(out, itemDTO(&list[i]))
	}
	return out, nil
}

// コメント投稿。過去に利用が完了した予約（end < now）がある人だけ。
// ステータスは見ない: REJECTED でも期間が過ぎていれば書ける
func (s *Service) SaveComment(ctx context.Context, in CreateCommentRequest, itemID, authorID int64) (CommentResponse, error) {
	if strings.TrimSpace(in.Text) == "" {
		return CommentResponse{}, ErrInvalid("comment text must not be blank")
	}
	if _, err := s.getItem(ctx, itemID); err != nil {
		return CommentResponse{}, err
	}
	authorName, err := s.store.UserName(ctx, authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CommentResponse{}, ErrNotFound(fmt.Sprintf("user %d not found", authorID))
		}
		return CommentResponse{}, err
	}

	now := s.clock.Now()
	ok, err := s.store.HasFinishedBooking(ctx, itemID, authorID, now)
	if err != nil {
		return CommentResponse{}, err
	}
	if !ok {
		return CommentResponse{}, ErrInvalid(fmt.Sprintf("user %d has no finished booking for item %d", authorID, itemID))
	}

	cm := &Comment{
		Text:       in.Text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: authorName,
		CreatedAt:  localtime.Of(now),
	}
	if err := s.store.InsertComment(ctx, cm); err != nil {
		return CommentResponse{}, err
	}
	return CommentResponse{
		ID:         cm.CommentID,
		Text:       cm.Text,
		AuthorName: cm.AuthorName,
		Created:    cm.CreatedAt,
	}, nil
}

// ---------- helpers ----------

func (s *Service) getItem(ctx context.Context, itemID int64) (*Item, error) {
	it, err := s.store.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound(fmt.Sprintf("item %d not found", itemID))
		}
		return nil, err
	}
	return it, nil
}

func (s *Service) annotate(ctx context.Context, dto *ItemResponse) error {
	now := s.clock.Now()
	last, err := s.store.LastBooking(ctx, dto.ID, now)
	if err != nil {
		return err
	}
	next, err := s.store.NextBooking(ctx, dto.ID, now)
	if err != nil {
		return err
	}
	dto.LastBooking = briefDTO(last)
	dto.NextBooking = briefDTO(next)
	return nil
}

func checkOwner(userID int64, it *Item) error {
	if it.OwnerID != userID {
		return ErrNotFound(fmt.Sprintf("item %d does not belong to user %d", it.ItemID, userID))
	}
	return nil
}
