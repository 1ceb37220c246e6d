package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitclub/internal/auth"
	"fitclub/internal/domain/storage"
	"fitclub/internal/domain/users"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeUsersStore struct {
	users map[int64]*users.User
}

func (f *fakeUsersStore) GetByID(_ context.Context, id int64) (*users.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, users.ErrNotFound
}

func (f *fakeUsersStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *fakeUsersStore) Create(_ context.Context, u *users.User) error { return nil }

func (f *fakeUsersStore) UpdateRole(_ context.Context, id int64, role string) error {
	u, ok := f.users[id]
	if !ok {
		return users.ErrNotFound
	}
	u.Role = role
	return nil
}

func (f *fakeUsersStore) SetBlocked(_ context.Context, id int64, blocked bool) error {
	u, ok := f.users[id]
	if !ok {
		return users.ErrNotFound
	}
	u.IsBlocked = blocked
	return nil
}

func (f *fakeUsersStore) List(_ context.Context, limit, offset int) ([]users.User, error) {
	var list []users.User
	for _, u := range f.users {
		list = append(list, *u)
	}
	return list, nil
}

func newAuthTestApp(store users.Store) *application {
	return &application{
		logger:        zap.NewNop().Sugar(),
		store:         &storage.Container{Users: store},
		authenticator: auth.NewJWTAuthenticator("test-secret", "FitClub", "FitClub", time.Hour),
	}
}

func TestAuthTokenMiddleware(t *testing.T) {
	store := &fakeUsersStore{users: map[int64]*users.User{
		7: {ID: 7, Email: "admin@example.com", Role: users.RoleAdmin},
		8: {ID: 8, Email: "blocked@example.com", Role: users.RoleUser, IsBlocked: true},
	}}
	app := newAuthTestApp(store)

	var seen *users.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getUserFromContext(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := app.AuthTokenMiddleware(next)

	t.Run("valid token loads the user", func(t *testing.T) {
		token, err := app.authenticator.GenerateToken(7, users.RoleAdmin)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		if assert.NotNil(t, seen) {
			assert.Equal(t, int64(7), seen.ID)
		}
	})

	t.Run("blocked user is forbidden", func(t *testing.T) {
		token, err := app.authenticator.GenerateToken(8, users.RoleUser)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown subject", func(t *testing.T) {
		token, err := app.authenticator.GenerateToken(999, users.RoleUser)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRequireRole(t *testing.T) {
	app := newAuthTestApp(&fakeUsersStore{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := app.RequireRole(users.RoleAdmin)(next)

	withUser := func(u *users.User) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil)
		return req.WithContext(context.WithValue(req.Context(), userCtx, u))
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, withUser(&users.User{ID: 1, Role: users.RoleAdmin}))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, withUser(&users.User{ID: 2, Role: users.RoleUser}))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/admin/users", nil))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
