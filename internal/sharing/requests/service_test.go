package requests

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit-backend/internal/sharing/localtime"
)

type mockStore struct {
	userExists        func(ctx context.Context, userID int64) (bool, error)
	insert            func(ctx context.Context, r *Request) error
	getByID           func(ctx context.Context, id int64) (*Request, error)
	listByRequester   func(ctx context.Context, requesterID int64) ([]Request, error)
	listOthers        func(ctx context.Context, requesterID int64, limit, offset int) ([]Request, error)
	itemsByRequestIDs func(ctx context.Context, requestIDs []int64) ([]ItemInRequest, error)
}

func (m *mockStore) UserExists(ctx context.Context, userID int64) (bool, error) {
	return m.userExists(ctx, userID)
}
func (m *mockStore) Insert(ctx context.Context, r *Request) error { return m.insert(ctx, r) }
func (m *mockStore) GetByID(ctx context.Context, id int64) (*Request, error) {
	return m.getByID(ctx, id)
}
func (m *mockStore) ListByRequester(ctx context.Context, requesterID int64) ([]Request, error) {
	return m.listByRequester(ctx, requesterID)
}
func (m *mockStore) ListOthers(ctx context.Context, requesterID int64, limit, offset int) ([]Request, error) {
	return m.listOthers(ctx, requesterID, limit, offset)
}
func (m *mockStore) ItemsByRequestIDs(ctx context.Context, requestIDs []int64) ([]ItemInRequest, error) {
	if m.itemsByRequestIDs == nil {
		return nil, nil
	}
	return m.itemsByRequestIDs(ctx, requestIDs)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func newTestService(store *mockStore) *Service {
	return NewServiceWith(store, fixedClock{t: testNow})
}

func assertCode(t *testing.T, err error, code Code) {
	t.Helper()
	var api *APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, code, api.Code)
}

func userOK(ctx context.Context, userID int64) (bool, error) { return true, nil }

func TestCreateRequest_BlankDescription(t *testing.T) {
	svc := newTestService(&mockStore{})

	_, err := svc.CreateRequest(context.Background(), CreateRequestRequest{Description: "  "}, 1)
	assertCode(t, err, CodeInvalidArgument)
}

func TestCreateRequest_UserNotFound(t *testing.T) {
	store := &mockStore{
		userExists: func(ctx context.Context, userID int64) (bool, error) { return false, nil },
	}
	svc := newTestService(store)

	_, err := svc.CreateRequest(context.Background(), CreateRequestRequest{Description: "need a drill"}, 99)
	assertCode(t, err, CodeNotFound)
}

func TestCreateRequest_OK(t *testing.T) {
	var saved *Request
	store := &mockStore{
		userExists: userOK,
		insert: func(ctx context.Context, r *Request) error {
			r.RequestID = 7
			saved = r
			return nil
		},
	}
	svc := newTestService(store)

	res, err := svc.CreateRequest(context.Background(), CreateRequestRequest{Description: "need a drill"}, 1)
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, localtime.Of(testNow), saved.CreatedAt)
	assert.Equal(t, int64(1), saved.RequesterID)

	assert.Equal(t, int64(7), res.ID)
	assert.Equal(t, "need a drill", res.Description)
}

func TestFindAll_Validation(t *testing.T) {
	svc := newTestService(&mockStore{userExists: userOK})

	_, err := svc.FindAll(context.Background(), -1, 20, 1)
	assertCode(t, err, CodeInvalidArgument)

	_, err = svc.FindAll(context.Background(), 0, 0, 1)
	assertCode(t, err, CodeInvalidArgument)
}

func TestFindAll_PageOffset(t *testing.T) {
	var gotLimit, gotOffset int
	store := &mockStore{
		userExists: userOK,
		listOthers: func(ctx context.Context, requesterID int64, limit, offset int) ([]Request, error) {
			gotLimit, gotOffset = limit, offset
			return nil, nil
		},
	}
	svc := newTestService(store)

	res, err := svc.FindAll(context.Background(), 25, 10, 1)
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.NotNil(t, res)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset) // ページ番号 2 に切り下げ
}

func TestFindAllByUserID_GroupsItems(t *testing.T) {
	rid1, rid2 := int64(1), int64(2)
	store := &mockStore{
		userExists: userOK,
		listByRequester: func(ctx context.Context, requesterID int64) ([]Request, error) {
			return []Request{
				{RequestID: rid1, Description: "need a drill", RequesterID: 1, CreatedAt: localtime.Of(testNow)},
				{RequestID: rid2, Description: "need a ladder", RequesterID: 1, CreatedAt: localtime.Of(testNow.Add(-time.Hour))},
			}, nil
		},
		itemsByRequestIDs: func(ctx context.Context, requestIDs []int64) ([]ItemInRequest, error) {
			assert.Equal(t, []int64{rid1, rid2}, requestIDs)
			return []ItemInRequest{
				{ItemID: 10, Name: "drill", Available: true, RequestID: sql.NullInt64{Int64: rid1, Valid: true}, OwnerID: 2},
				{ItemID: 11, Name: "hammer drill", Available: true, RequestID: sql.NullInt64{Int64: rid1, Valid: true}, OwnerID: 3},
			}, nil
		},
	}
	svc := newTestService(store)

	res, err := svc.FindAllByUserID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Len(t, res[0].Items, 2)
	assert.Equal(t, int64(10), res[0].Items[0].ID)

	// item が付いていない request も空リストで返る（null にしない）
	assert.NotNil(t, res[1].Items)
	assert.Empty(t, res[1].Items)
}

func TestFindByID_NotFound(t *testing.T) {
	store := &mockStore{
		userExists: userOK,
		getByID:    func(ctx context.Context, id int64) (*Request, error) { return nil, sql.ErrNoRows },
	}
	svc := newTestService(store)

	_, err := svc.FindByID(context.Background(), 99, 1)
	assertCode(t, err, CodeNotFound)
}

func TestFindByID_OK(t *testing.T) {
	store := &mockStore{
		userExists: userOK,
		getByID: func(ctx context.Context, id int64) (*Request, error) {
			return &Request{RequestID: 7, Description: "need a drill", RequesterID: 2, CreatedAt: localtime.Of(testNow)}, nil
		},
	}
	svc := newTestService(store)

	res, err := svc.FindByID(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.ID)
	assert.NotNil(t, res.Items)
}
