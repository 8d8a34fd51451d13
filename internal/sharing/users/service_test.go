package users

import (
	"context"
	"database/sql"
	"testing"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	insert   func(ctx context.Context, name, email string) (int64, error)
	getByID  func(ctx context.Context, id int64) (*User, error)
	list     func(ctx context.Context) ([]User, error)
	update   func(ctx context.Context, u *User) error
	deleteFn func(ctx context.Context, id int64) (int64, error)
}

func (m *mockStore) Insert(ctx context.Context, name, email string) (int64, error) {
	return m.insert(ctx, name, email)
}
func (m *mockStore) GetByID(ctx context.Context, id int64) (*User, error) {
	return m.getByID(ctx, id)
}
func (m *mockStore) List(ctx context.Context) ([]User, error) { return m.list(ctx) }
func (m *mockStore) Update(ctx context.Context, u *User) error {
	return m.update(ctx, u)
}
func (m *mockStore) Delete(ctx context.Context, id int64) (int64, error) {
	return m.deleteFn(ctx, id)
}

func assertCode(t *testing.T, err error, code Code) {
	t.Helper()
	var api *APIError
	require.ErrorAs(t, err, &api)
	assert.Equal(t, code, api.Code)
}

var errDuplicate = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

func TestCreateUser_Validation(t *testing.T) {
	svc := NewServiceWithStore(&mockStore{})

	_, err := svc.CreateUser(context.Background(), UserRequest{Name: "", Email: "a@example.com"})
	assertCode(t, err, CodeInvalidArgument)

	_, err = svc.CreateUser(context.Background(), UserRequest{Name: "alice", Email: "  "})
	assertCode(t, err, CodeInvalidArgument)
}

func TestCreateUser_EmailConflict(t *testing.T) {
	store := &mockStore{
		insert: func(ctx context.Context, name, email string) (int64, error) { return 0, errDuplicate },
	}
	svc := NewServiceWithStore(store)

	_, err := svc.CreateUser(context.Background(), UserRequest{Name: "alice", Email: "a@example.com"})
	assertCode(t, err, CodeConflict)
}

func TestCreateUser_OK(t *testing.T) {
	store := &mockStore{
		insert: func(ctx context.Context, name, email string) (int64, error) { return 1, nil },
	}
	svc := NewServiceWithStore(store)

	res, err := svc.CreateUser(context.Background(), UserRequest{Name: "alice", Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, UserResponse{ID: 1, Name: "alice", Email: "a@example.com"}, res)
}

func TestGetUser_NotFound(t *testing.T) {
	store := &mockStore{
		getByID: func(ctx context.Context, id int64) (*User, error) { return nil, sql.ErrNoRows },
	}
	svc := NewServiceWithStore(store)

	_, err := svc.GetUser(context.Background(), 99)
	assertCode(t, err, CodeNotFound)
}

func TestUpdateUser_PartialPatch(t *testing.T) {
	var saved *User
	store := &mockStore{
		getByID: func(ctx context.Context, id int64) (*User, error) {
			return &User{UserID: 1, Name: "alice", Email: "a@example.com"}, nil
		},
		update: func(ctx context.Context, u *User) error { saved = u; return nil },
	}
	svc := NewServiceWithStore(store)

	res, err := svc.UpdateUser(context.Background(), 1, UserRequest{Name: "alicia"})
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, "alicia", saved.Name)
	assert.Equal(t, "a@example.com", saved.Email) // 未指定は据え置き
	assert.Equal(t, "alicia", res.Name)
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	store := &mockStore{
		getByID: func(ctx context.Context, id int64) (*User, error) {
			return &User{UserID: 1, Name: "alice", Email: "a@example.com"}, nil
		},
		update: func(ctx context.Context, u *User) error { return errDuplicate },
	}
	svc := NewServiceWithStore(store)

	_, err := svc.UpdateUser(context.Background(), 1, UserRequest{Email: "taken@example.com"})
	assertCode(t, err, CodeConflict)
}

func TestDeleteUser(t *testing.T) {
	store := &mockStore{
		deleteFn: func(ctx context.Context, id int64) (int64, error) { return 1, nil },
	}
	svc := NewServiceWithStore(store)
	require.NoError(t, svc.DeleteUser(context.Background(), 1))

	store.deleteFn = func(ctx context.Context, id int64) (int64, error) { return 0, nil }
	err := svc.DeleteUser(context.Background(), 99)
	assertCode(t, err, CodeNotFound)
}

func TestListUsers_EmptyIsNotNil(t *testing.T) {
	store := &mockStore{
		list: func(ctx context.Context) ([]User, error) { return nil, nil },
	}
	svc := NewServiceWithStore(store)

	res, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
}
