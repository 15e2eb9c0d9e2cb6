package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/givebridge-donation-platform/internal/api/middleware"
	"github.com/givebridge-donation-platform/internal/config"
	"github.com/givebridge-donation-platform/internal/domain/charity"
	"github.com/givebridge-donation-platform/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrCharityNotApproved indicates a charity account that has not passed moderation yet
var ErrCharityNotApproved = errors.New("charity account is not approved")

// RegisterParams carries the fields needed to create an account.
// CharityName and RegistrationNumber are required for charity accounts.
type RegisterParams struct {
	Email              string
	Password           string
	FullName           string
	Role               user.Role
	CharityName        string
	RegistrationNumber string
}

// AuthServiceImpl implements the AuthService interface
type AuthServiceImpl struct {
	db          TxRunner
	userRepo    user.Repository
	charityRepo charity.Repository
	cfg         *config.AuthConfig
	logger      *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(logger *slog.Logger, cfg *config.AuthConfig, db TxRunner, userRepo user.Repository, charityRepo charity.Repository) AuthService {
	return &AuthServiceImpl{
		db:          db,
		userRepo:    userRepo,
		charityRepo: charityRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// Register creates an account and returns it with a signed access token.
// A charity registration creates the user and its pending charity profile in
// one transaction; admin accounts cannot be self-registered.
func (s *AuthServiceImpl) Register(ctx context.Context, params RegisterParams) (*user.User, string, error) {
	if params.Role != user.RoleDonor && params.Role != user.RoleCharity {
		return nil, "", user.ErrInvalidRole
	}

	existing, err := s.userRepo.GetByEmail(ctx, params.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", user.ErrDuplicateEmail{Email: params.Email}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u, err := user.New(params.Email, string(hash), params.FullName, params.Role)
	if err != nil {
		return nil, "", err
	}

	if params.Role == user.RoleCharity {
		profile, err := charity.New(u.ID, params.CharityName, params.RegistrationNumber, "", "", "", params.Email)
		if err != nil {
			return nil, "", err
		}

		err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
			if err := s.userRepo.WithTx(tx).Create(ctx, u); err != nil {
				return err
			}
			return s.charityRepo.WithTx(tx).Create(ctx, profile)
		})
		if err != nil {
			return nil, "", err
		}
	} else {
		if err := s.userRepo.Create(ctx, u); err != nil {
			return nil, "", err
		}
	}

	token, err := middleware.NewAccessToken(s.cfg.JWTSecret, u, s.cfg.TokenTTL)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("User registered", "user_id", u.ID, "role", string(u.Role))
	return u, token, nil
}

// Login verifies credentials and returns the account with a signed access token.
// Password mismatch and unknown email both map to ErrInvalidCredentials so the
// response does not leak which one failed. Charity accounts still pending or
// rejected by moderation get ErrCharityNotApproved.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if u.Role == user.RoleCharity {
		profile, err := s.charityRepo.GetByID(ctx, u.ID)
		if err != nil {
			return nil, "", err
		}
		if profile.Status != charity.StatusApproved {
			return nil, "", ErrCharityNotApproved
		}
	}

	token, err := middleware.NewAccessToken(s.cfg.JWTSecret, u, s.cfg.TokenTTL)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}
