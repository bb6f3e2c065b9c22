package authservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/internal/pg"
	"github.com/dkovalev/loancore/pkg/auth"
)

type mocks struct {
	userRepo  *MockUserRepo
	ledger    *MockLedger
	txManager *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		userRepo:  NewMockUserRepo(ctrl),
		ledger:    NewMockLedger(ctrl),
		txManager: pg.NewMockTXManager(ctrl),
	}
	service := New(m.userRepo, m.ledger,
		auth.NewJWTService("test-secret"), &auth.HashService{}, m.txManager)
	return service, m
}

func passthroughTx(m *mocks) {
	m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn pg.TransactionalFn) error {
			return fn(ctx)
		})
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name         string
		login        string
		password     string
		prepareMock  func(m *mocks)
		expectedKind errs.Kind
	}{
		{
			name:     "success",
			login:    "alice",
			password: "secret",
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.userRepo.EXPECT().FindByLogin(gomock.Any(), "alice").Return(nil, nil)
				m.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, user *domain.User) (*domain.User, error) {
						user.ID = "user-1"
						return user, nil
					})
				m.ledger.EXPECT().CreateAccount(gomock.Any(), "user-1").
					Return(&domain.Account{ID: "acc-1", OwnerRef: "user-1"}, nil)
			},
		},
		{
			name:         "empty credentials",
			login:        "",
			password:     "",
			prepareMock:  func(m *mocks) {},
			expectedKind: errs.KindValidation,
		},
		{
			name:     "login taken",
			login:    "alice",
			password: "secret",
			prepareMock: func(m *mocks) {
				passthroughTx(m)
				m.userRepo.EXPECT().FindByLogin(gomock.Any(), "alice").
					Return(&domain.User{ID: "user-1", Login: "alice"}, nil)
			},
			expectedKind: errs.KindConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			token, err := service.Register(context.Background(), tt.login, tt.password)
			if tt.expectedKind != 0 {
				assert.Empty(t, token)
				assert.Equal(t, tt.expectedKind, errs.KindOf(err))
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := auth.NewJWTService("test-secret").ValidateToken(token)
			assert.NoError(t, err)
			assert.Equal(t, "user-1", claims.UserID)
			assert.Equal(t, domain.RoleBorrower, claims.Role)
		})
	}
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("seeds admin when login is absent", func(t *testing.T) {
		service, m := NewMock(t)
		passthroughTx(m)
		m.userRepo.EXPECT().FindByLogin(gomock.Any(), "admin").Return(nil, nil)

		var created *domain.User
		m.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, user *domain.User) (*domain.User, error) {
				user.ID = "user-admin"
				created = user
				return user, nil
			})

		err := service.EnsureAdmin(context.Background(), "admin", "admin123")
		assert.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, created.Role)
		assert.True(t, (&auth.HashService{}).ComparePassword(created.PasswordHash, "admin123"))
	})

	t.Run("no-op when admin already exists", func(t *testing.T) {
		service, m := NewMock(t)
		passthroughTx(m)
		m.userRepo.EXPECT().FindByLogin(gomock.Any(), "admin").
			Return(&domain.User{ID: "user-admin", Login: "admin", Role: domain.RoleAdmin}, nil)

		err := service.EnsureAdmin(context.Background(), "admin", "admin123")
		assert.NoError(t, err)
	})

	t.Run("no-op when credentials are blank", func(t *testing.T) {
		service, _ := NewMock(t)

		err := service.EnsureAdmin(context.Background(), "", "")
		assert.NoError(t, err)
	})
}

func TestLogin(t *testing.T) {
	hash, err := (&auth.HashService{}).HashPassword("secret")
	assert.NoError(t, err)

	tests := []struct {
		name         string
		password     string
		prepareMock  func(m *mocks)
		expectedKind errs.Kind
	}{
		{
			name:     "success",
			password: "secret",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByLogin(gomock.Any(), "alice").
					Return(&domain.User{ID: "user-1", Login: "alice",
						PasswordHash: hash, Role: domain.RoleBorrower}, nil)
			},
		},
		{
			name:     "wrong password",
			password: "not-the-secret",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByLogin(gomock.Any(), "alice").
					Return(&domain.User{ID: "user-1", Login: "alice",
						PasswordHash: hash, Role: domain.RoleBorrower}, nil)
			},
			expectedKind: errs.KindUnauthorized,
		},
		{
			name:     "unknown user",
			password: "secret",
			prepareMock: func(m *mocks) {
				m.userRepo.EXPECT().FindByLogin(gomock.Any(), "alice").Return(nil, nil)
			},
			expectedKind: errs.KindUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			token, err := service.Login(context.Background(), "alice", tt.password)
			if tt.expectedKind != 0 {
				assert.Empty(t, token)
				assert.Equal(t, tt.expectedKind, errs.KindOf(err))
				return
			}
			assert.NoError(t, err)
			assert.NotEmpty(t, token)
		})
	}
}
