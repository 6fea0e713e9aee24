package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/altyebv/restaurant-pos-system/internal/dto"
	"github.com/altyebv/restaurant-pos-system/internal/model"
	"github.com/altyebv/restaurant-pos-system/internal/repository"
)

// memUserRepo is a minimal in-memory UserRepository.
type memUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *memUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.CashierCode == u.CashierCode {
			return repository.ErrDuplicateKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) FindByCashierCode(_ context.Context, code string) (*model.User, error) {
	for _, u := range r.users {
		if u.CashierCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Update(_ context.Context, u *model.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func newAuthFixtures(t *testing.T) (*memUserRepo, *memSessionRepo, AuthService, *model.User) {
	t.Helper()
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	orders := newMemOrderRepo()
	sessionSvc := NewSessionService(sessions, orders)
	svc := NewAuthService(users, sessionSvc, "test-secret", time.Hour, 24*time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Name:         "Test Cashier",
		Email:        "cashier@visioncafe.com",
		PasswordHash: string(hash),
		Role:         model.RoleCashier,
		CashierCode:  "A1",
		IsActive:     true,
	}
	require.NoError(t, users.Create(context.Background(), u))
	return users, sessions, svc, u
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	_, _, svc, _ := newAuthFixtures(t)

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "cashier@visioncafe.com", Password: "letmein"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "A1", resp.User.CashierCode)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	_, _, svc, _ := newAuthFixtures(t)

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "cashier@visioncafe.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	ctx := context.Background()
	_, _, svc, _ := newAuthFixtures(t)

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "nobody@visioncafe.com", Password: "letmein"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	ctx := context.Background()
	users, _, svc, u := newAuthFixtures(t)

	u.IsActive = false
	require.NoError(t, users.Update(ctx, u))

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "cashier@visioncafe.com", Password: "letmein"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestLoginRecordsOperationOnOpenSession(t *testing.T) {
	ctx := context.Background()
	_, sessions, svc, u := newAuthFixtures(t)

	s := &model.Session{CashierID: u.ID, Status: model.SessionOpen, StartedAt: time.Now()}
	require.NoError(t, sessions.Create(ctx, s))

	_, err := svc.Login(ctx, dto.LoginRequest{Email: "cashier@visioncafe.com", Password: "letmein"})
	require.NoError(t, err)

	ops := sessions.operationsOfType(s.ID, model.OpUserLogin)
	assert.Len(t, ops, 1)
}

func TestRefreshRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, _, svc, _ := newAuthFixtures(t)

	login, err := svc.Login(ctx, dto.LoginRequest{Email: "cashier@visioncafe.com", Password: "letmein"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	_, _, svc, _ := newAuthFixtures(t)

	_, err := svc.Refresh(ctx, dto.RefreshRequest{RefreshToken: "not-a-token"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutClosesOpenSession(t *testing.T) {
	ctx := context.Background()
	_, sessions, svc, u := newAuthFixtures(t)

	s := &model.Session{CashierID: u.ID, Status: model.SessionOpen, StartedAt: time.Now()}
	require.NoError(t, sessions.Create(ctx, s))

	actor := Principal{ID: u.ID, Role: u.Role, CashierCode: u.CashierCode}
	require.NoError(t, svc.Logout(ctx, actor))

	stored, err := sessions.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionClosed, stored.Status)
}

func TestLogoutWithoutSessionIsNoop(t *testing.T) {
	ctx := context.Background()
	_, _, svc, u := newAuthFixtures(t)

	actor := Principal{ID: u.ID, Role: u.Role, CashierCode: u.CashierCode}
	assert.NoError(t, svc.Logout(ctx, actor))
}

func TestCreateUserNormalizesCashierCode(t *testing.T) {
	ctx := context.Background()
	_, _, svc, _ := newAuthFixtures(t)

	resp, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Name:        "New Cashier",
		Email:       "NEW@visioncafe.com",
		Password:    "secret1",
		Role:        model.RoleCashier,
		CashierCode: " b7 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "B7", resp.CashierCode)
	assert.Equal(t, "new@visioncafe.com", resp.Email)
}

func TestCreateUserRejectsBadCashierCode(t *testing.T) {
	ctx := context.Background()
	_, _, svc, _ := newAuthFixtures(t)

	for _, code := range []string{"1A", "AB", "A", "A-1", ""} {
		_, err := svc.CreateUser(ctx, dto.CreateUserRequest{
			Name:        "New Cashier",
			Email:       "new@visioncafe.com",
			Password:    "secret1",
			Role:        model.RoleCashier,
			CashierCode: code,
		})
		assert.ErrorIs(t, err, ErrInvalidCashierCode, "code %q", code)
	}
}

func TestCreateUserDuplicateCashierCode(t *testing.T) {
	ctx := context.Background()
	_, _, svc, _ := newAuthFixtures(t)

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Name:        "Impostor",
		Email:       "impostor@visioncafe.com",
		Password:    "secret1",
		Role:        model.RoleCashier,
		CashierCode: "A1",
	})
	assert.ErrorIs(t, err, ErrCashierCodeDuplicated)
}
