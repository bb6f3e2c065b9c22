package authservice

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dkovalev/loancore/internal/domain"
	"github.com/dkovalev/loancore/internal/errs"
	"github.com/dkovalev/loancore/internal/pg"
	"github.com/dkovalev/loancore/pkg/auth"
)

const tokenTTL = 24 * time.Hour

type UserRepo interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type Ledger interface {
	CreateAccount(ctx context.Context, ownerRef string) (*domain.Account, error)
}

type Service struct {
	userRepo    UserRepo
	ledger      Ledger
	jwtService  auth.JWTServiceInterface
	hashService auth.HashServiceInterface
	txManager   pg.TXManager
}

func New(
	userRepo UserRepo,
	ledger Ledger,
	jwtService auth.JWTServiceInterface,
	hashService auth.HashServiceInterface,
	txManager pg.TXManager,
) *Service {
	return &Service{
		userRepo:    userRepo,
		ledger:      ledger,
		jwtService:  jwtService,
		hashService: hashService,
		txManager:   txManager,
	}
}

// Register creates a borrower together with their ledger account in one unit
// of work and returns a signed token.
func (s *Service) Register(ctx context.Context, login, password string) (string, error) {
	if login == "" || password == "" {
		return "", errs.New(errs.KindValidation, "login and password are required")
	}

	var user *domain.User
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		existing, err := s.userRepo.FindByLogin(ctx, login)
		if err != nil {
			return err
		}
		if existing != nil {
			return errs.New(errs.KindConflict, "login is already taken")
		}

		hash, err := s.hashService.HashPassword(password)
		if err != nil {
			return err
		}

		user, err = s.userRepo.Create(ctx, &domain.User{
			Login:        login,
			PasswordHash: hash,
			Role:         domain.RoleBorrower,
		})
		if err != nil {
			return err
		}

		if _, err := s.ledger.CreateAccount(ctx, user.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	zap.L().Info("user registered", zap.String("login", login))
	return s.jwtService.GenerateJWT(user.ID, user.Role, time.Now().Add(tokenTTL))
}

// EnsureAdmin seeds an administrative user on startup. Registration only ever
// produces borrowers, so without this a fresh deployment has nobody able to
// approve or fund loans. A no-op when the login already exists or the
// credentials are blank.
func (s *Service) EnsureAdmin(ctx context.Context, login, password string) error {
	if login == "" || password == "" {
		return nil
	}

	return s.txManager.Begin(ctx, func(ctx context.Context) error {
		existing, err := s.userRepo.FindByLogin(ctx, login)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		hash, err := s.hashService.HashPassword(password)
		if err != nil {
			return err
		}

		if _, err := s.userRepo.Create(ctx, &domain.User{
			Login:        login,
			PasswordHash: hash,
			Role:         domain.RoleAdmin,
		}); err != nil {
			return err
		}

		zap.L().Info("admin user seeded", zap.String("login", login))
		return nil
	})
}

// Login checks the credentials and returns a signed token carrying the
// user's role.
func (s *Service) Login(ctx context.Context, login, password string) (string, error) {
	if login == "" || password == "" {
		return "", errs.New(errs.KindValidation, "login and password are required")
	}

	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return "", err
	}
	if user == nil || !s.hashService.ComparePassword(user.PasswordHash, password) {
		return "", errs.New(errs.KindUnauthorized, "invalid login or password")
	}

	return s.jwtService.GenerateJWT(user.ID, user.Role, time.Now().Add(tokenTTL))
}
