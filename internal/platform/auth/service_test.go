package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockAccountStore struct {
	getByID  func(ctx context.Context, id string) (*AdminAccount, error)
	create   func(ctx context.Context, a *AdminAccount) error
	deleteFn func(ctx context.Context, id string) (int64, error)
}

func (m *mockAccountStore) GetByID(ctx context.Context, id string) (*AdminAccount, error) {
	return m.getByID(ctx, id)
}
func (m *mockAccountStore) Create(ctx context.Context, a *AdminAccount) error {
	return m.create(ctx, a)
}
func (m *mockAccountStore) Delete(ctx context.Context, id string) (int64, error) {
	return m.deleteFn(ctx, id)
}

var testSecret = []byte("test-secret")

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_OK(t *testing.T) {
	store := &mockAccountStore{
		getByID: func(ctx context.Context, id string) (*AdminAccount, error) {
			return &AdminAccount{AccountID: "ops", PasswordHash: hashOf(t, "secret"), Role: "admin"}, nil
		},
	}
	svc := NewServiceWithStore(store, testSecret)

	tokenStr, err := svc.Login(context.Background(), "ops", "secret")
	require.NoError(t, err)

	token, err := jwt.Parse(tokenStr, func(tk *jwt.Token) (any, error) { return testSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "ops", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestLogin_Failures(t *testing.T) {
	t.Run("unknown account", func(t *testing.T) {
		store := &mockAccountStore{
			getByID: func(ctx context.Context, id string) (*AdminAccount, error) { return nil, nil },
		}
		svc := NewServiceWithStore(store, testSecret)
		_, err := svc.Login(context.Background(), "nobody", "secret")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("wrong password", func(t *testing.T) {
		store := &mockAccountStore{
			getByID: func(ctx context.Context, id string) (*AdminAccount, error) {
				return &AdminAccount{AccountID: "ops", PasswordHash: hashOf(t, "secret")}, nil
			},
		}
		svc := NewServiceWithStore(store, testSecret)
		_, err := svc.Login(context.Background(), "ops", "wrong")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})

	t.Run("disabled account", func(t *testing.T) {
		store := &mockAccountStore{
			getByID: func(ctx context.Context, id string) (*AdminAccount, error) {
				return &AdminAccount{AccountID: "ops", PasswordHash: hashOf(t, "secret"), IsDisabled: true}, nil
			},
		}
		svc := NewServiceWithStore(store, testSecret)
		_, err := svc.Login(context.Background(), "ops", "secret")
		assert.ErrorIs(t, err, ErrAuthFailed)
	})
}

func TestRegister_Duplicate(t *testing.T) {
	store := &mockAccountStore{
		getByID: func(ctx context.Context, id string) (*AdminAccount, error) {
			return &AdminAccount{AccountID: "ops"}, nil
		},
	}
	svc := NewServiceWithStore(store, testSecret)

	err := svc.Register(context.Background(), "ops", "secret", "admin")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegister_HashesPassword(t *testing.T) {
	var saved *AdminAccount
	store := &mockAccountStore{
		getByID: func(ctx context.Context, id string) (*AdminAccount, error) { return nil, nil },
		create:  func(ctx context.Context, a *AdminAccount) error { saved = a; return nil },
	}
	svc := NewServiceWithStore(store, testSecret)

	require.NoError(t, svc.Register(context.Background(), "ops", "secret", "operator"))
	require.NotNil(t, saved)
	assert.NotEqual(t, "secret", saved.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("secret")))
}

func TestDelete_NotFound(t *testing.T) {
	store := &mockAccountStore{
		deleteFn: func(ctx context.Context, id string) (int64, error) { return 0, nil },
	}
	svc := NewServiceWithStore(store, testSecret)

	err := svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
