package bookings

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// BookingStore は予約ワークフローが必要とする永続化操作。
// user/item の参照も含む（ここ経由で他テーブルを読むだけで、書くのは bookings のみ）。
type BookingStore interface {
	GetUser(ctx context.Context, id int64) (*UserRef, error)
	GetItem(ctx context.Context, id int64) (*ItemRef, error)
	GetBooking(ctx context.Context, id int64) (*Booking, error)
	Insert(ctx context.Context, b *Booking) error
	UpdateStatus(ctx context.Context, bookingID int64, status Status) error
	ListByBooker(ctx context.Context, bookerID int64, q ListQuery) ([]BookingDetail, error)
	ListByItemOwner(ctx context.Context, ownerID int64, q ListQuery) ([]BookingDetail, error)
}

// ===== Service本体 =====

type Service struct {
	store BookingStore
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{
		store: NewStore(db),
		clock: realClock{},
		id:    ulidGen{},
	}
}

func NewServiceWith(store BookingStore, clock Clock, id IDGen) *Service {
	return &Service{store: store, clock: clock, id: id}
}

// 予約作成。チェック順は固定:
// 時刻 → user 存在 → item 存在 → 自分の item でない → available
func (s *Service) CreateBooking(ctx context.Context, req CreateBookingRequest, userID int64) (*BookingResponse, error) {
	if req.Start == nil || req.End == nil || !req.Start.Before(req.End.Time) {
		return nil, ErrInvalid(fmt.Sprintf("invalid booking time range: start=%v end=%v", req.Start, req.End))
	}

	booker, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound(fmt.Sprintf("user %d not found", userID))
		}
		return nil, err
	}

	item, err := s.store.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound(fmt.Sprintf("item %d not found", req.ItemID))
		}
		return nil, err
	}

	// 自分の item は予約できない（404扱い）
	if item.OwnerID == userID {
		return nil, ErrNotFound("cannot book your own item")
	}

	if !item.Available {
		return nil, ErrInvalid(fmt.Sprintf("item %d is not available for booking", item.ItemID))
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		BookingULID: idStr,
		Start:       *req.Start,
		End:         *req.End,
		ItemID:      item.ItemID,
		BookerID:    booker.UserID,
		Status:      StatusWaiting,
	}
	if err := s.store.Insert(ctx, booking); err != nil {
		return nil, err
	}

	return &BookingResponse{
		ID:          booking.BookingID,
		BookingULID: booking.BookingULID,
		Start:       booking.Start,
		End:         booking.End,
		Status:      booking.Status,
		Booker:      bookerDTO(booker),
		Item:        itemDTO(item),
	}, nil
}

// 承認/却下。item の所有者のみ実行できる。
func (s *Service) PatchBooking(ctx context.Context, bookingID int64, approved bool, userID int64) (*BookingResponse, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound(fmt.Sprintf("booking %d not found", bookingID))
		}
		return nil, err
	}

	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound(fmt.Sprintf("item %d not found", booking.ItemID))
		}
		return nil, err
	}

	if item.OwnerID != userID {
		return nil, ErrNotFound(fmt.Sprintf("user %d is not the owner of item %d", userID, item.ItemID))
	}

	target := StatusRejected
	if approved {
		target = StatusApproved
	}
	if !booking.Status.CanTransitionTo(target) {
		return nil, ErrInvalid(fmt.Sprintf("booking %d is already %s", bookingID, target))
	}

	if err := s.store.UpdateStatus(ctx, bookingID, target); err != nil {
		return nil, err
	}
	booking.Status = target

	booker, err := s.store.GetUser(ctx, booking.BookerID)
	if err != nil {
		return nil, err
	}

	return &BookingResponse{
		ID:          booking.BookingID,
		BookingULID: booking.BookingULID,
		Start:       booking.Start,
		End:         booking.End,
		Status:      booking.Status,
		Booker:      bookerDTO(booker),
		Item:        itemDTO(item),
		Name:        item.Name,
	}, nil
}

// ID指定取得。booker か item 所有者だけが見られる。
func (s *Service) FindByID(ctx context.Context, bookingID, userID int64) (*BookingResponse, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound(fmt.Sprintf("user %d not found", userID))
		}
		return nil, err
	}

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound(fmt.Sprintf("booking %d not found", bookingID))
		}
		return nil, err
	}

	item, err := s.store.GetItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	if userID != booking.BookerID && userID != item.OwnerID {
		return nil, ErrNotFound(fmt.Sprintf("user %d is neither booker nor item owner", userID))
	}

	booker, err := s.store.GetUser(ctx, booking.BookerID)
	if err != nil {
		return nil, err
	}

	return &BookingResponse{
		ID:          booking.BookingID,
		BookingULID: booking.BookingULID,
		Start:       booking.Start,
		End:         booking.End,
		Status:      booking.Status,
		Booker:      bookerDTO(booker),
		Item:        itemDTO(item),
		Name:        item.Name,
	}, nil
}

// 自分が予約した一覧
func (s *Service) FindAllByBooker(ctx context.Context, stateStr string, userID int64, from, size int) ([]BookingResponse, error) {
	return s.findAll(ctx, stateStr, userID, from, size, scopeBooker)
}

// 自分の item に入った予約の一覧
func (s *Service) FindAllByItemOwner(ctx context.Context, stateStr string, userID int64, from, size int) ([]BookingResponse, error) {
	return s.findAll(ctx, stateStr, userID, from, size, scopeItemOwner)
}

func (s *Service) findAll(ctx context.Context, stateStr string, userID int64, from, size int, scope listScope) ([]BookingResponse, error) {
	state, err := ParseState(stateStr)
	if err != nil {
		return nil, err
	}
	if from < 0 {
		return nil, ErrInvalid("from must be >= 0")
	}
	if size <= 0 {
		return nil, ErrInvalid("size must be > 0")
	}

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound(fmt.Sprintf("user %d not found", userID))
		}
		return nil, err
	}

	q := buildListQuery(state, scope, s.clock.Now())
	q.Limit = size
	q.Offset = pageOffset(from, size)

	var details []BookingDetail
	if scope == scopeBooker {
		details, err = s.store.ListByBooker(ctx, userID, q)
	} else {
		details, err = s.store.ListByItemOwner(ctx, userID, q)
	}
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(details))
	for i := range details {
		out = append(out, toDetailedResponse(&details[i]))
	}
	return out, nil
}

func toDetailedResponse(d *BookingDetail) BookingResponse {
	item := d.Item
	booker := d.Booker
	return BookingResponse{
		ID:          d.BookingID,
		BookingULID: d.BookingULID,
		Start:       d.Start,
		End:         d.End,
		Status:      d.Status,
		Booker:      bookerDTO(&booker),
		Item:        itemDTO(&item),
		Name:        item.Name,
	}
}
