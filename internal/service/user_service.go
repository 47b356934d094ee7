package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"Alumni_Network/internal/model"
	"Alumni_Network/internal/pkg"
	"Alumni_Network/internal/repository/redis"
	"Alumni_Network/internal/repository/store"
)

type UserService struct {
	repo     *store.UserRepository
	tokens   *redis.TokenRepository
	issuer   *pkg.TokenIssuer
	emailSvc *EmailService
}

func NewUserService(repo *store.UserRepository, tokens *redis.TokenRepository, issuer *pkg.TokenIssuer, emailSvc *EmailService) *UserService {
	return &UserService{repo: repo, tokens: tokens, issuer: issuer, emailSvc: emailSvc}
}

func (s *UserService) Register(ctx context.Context, username, password, email, code string) (*model.User, error) {
	exists, err := s.repo.Exists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, store.ErrConflict
	}
	if err := s.emailSvc.VerifyCode(ctx, redis.ScopeRegister, email, code); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: username, Password: string(hash), Email: email}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login issues a new pair; the stored access token replaces any previous
// session of the same user.
func (s *UserService) Login(ctx context.Context, username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, user.ID)
}

func (s *UserService) issue(ctx context.Context, userID uint64) (*pkg.Pair, error) {
	pair, err := s.issuer.GeneratePair(userID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.SetSession(ctx, userID, pair.AccessToken, pair.RefreshID); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout drops the access token and the refresh jti, so neither token of the
// pair can be used again.
func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	return s.tokens.Delete(ctx, userID)
}

// Refresh rotates the pair. The refresh token must be the one issued with the
// live session; logout, password changes and earlier refreshes revoke it.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.ConsumeRefresh(ctx, claims.UserID, claims.ID); err != nil {
		if errors.Is(err, redis.ErrTokenNotFound) {
			return nil, pkg.ErrRefreshInvalid
		}
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, claims.UserID); err != nil {
		return nil, err
	}
	return s.issue(ctx, claims.UserID)
}

func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.emailSvc.VerifyCode(ctx, redis.ScopeReset, email, code); err != nil {
		return err
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user, string(hash)); err != nil {
		return err
	}
	return s.Logout(ctx, user.ID)
}

// ChangePassword verifies the old password and ends the current session.
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return invalid("old password is incorrect")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user, string(hash)); err != nil {
		return err
	}
	return s.Logout(ctx, userID)
}

// Authenticate checks an access token against the live session and slides
// its expiry.
func (s *UserService) Authenticate(ctx context.Context, accessToken string) (uint64, error) {
	claims, err := s.issuer.ParseAccess(accessToken)
	if err != nil {
		return 0, err
	}
	current, err := s.tokens.Get(ctx, claims.UserID)
	if err != nil {
		return 0, err
	}
	if current != accessToken {
		return 0, redis.ErrTokenNotFound
	}
	if err := s.tokens.Extend(ctx, claims.UserID); err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
