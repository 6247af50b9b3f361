package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"

	"github.com/iliyamo/artist-booking/internal/apperr"
	"github.com/iliyamo/artist-booking/internal/config"
	"github.com/iliyamo/artist-booking/internal/model"
	"github.com/iliyamo/artist-booking/internal/repository"
	"github.com/iliyamo/artist-booking/internal/utils"
)

// errBadCredentials is shared by the unknown-email and wrong-password
// paths so responses cannot be told apart.
var errBadCredentials = apperr.New(apperr.Unauthorized, "incorrect email or password")

// AuthSettings are the credential parameters taken from config.Config.
type AuthSettings struct {
	Secret         string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// AuthSettingsFrom extracts the auth parameters from the app config.
func AuthSettingsFrom(cfg config.Config) AuthSettings {
	return AuthSettings{
		Secret:         cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		BcryptCost:     cfg.BcryptCost,
	}
}

// AuthService is the identity store plus token issuance.
type AuthService struct {
	store    TxRunner
	settings AuthSettings
	log      *log.Logger
	validate *validator.Validate
}

func NewAuthService(store TxRunner, settings AuthSettings, logger *log.Logger) *AuthService {
	return &AuthService{store: store, settings: settings, log: logger, validate: newValidator()}
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=6"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Role     string  `json:"role" validate:"required"`
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Register creates an active account.  The email is stored lower-cased.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.validate.Struct(in); err != nil {
		return model.User{}, invalid(err)
	}
	role, err := model.ParseRole(in.Role)
	if err != nil {
		return model.User{}, apperr.Wrap(apperr.InvalidArgument, "role must be one of artist, organizer, admin", err)
	}
	hash, err := utils.HashPassword(in.Password, s.settings.BcryptCost)
	if err != nil {
		return model.User{}, apperr.Wrap(apperr.Internal, "hash password", err)
	}

	u := model.User{
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        in.Phone,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	err = s.store.Tx(ctx, func(r repository.Repos) error {
		if err := r.Users.Create(ctx, &u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.New(apperr.Conflict, "email already registered")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return model.User{}, classify(err)
	}
	s.log.Infof("user %d registered as %s", u.ID, u.Role)
	return u, nil
}

// Authenticate checks credentials and issues a token pair.  Unknown email
// and wrong password fail with the same Unauthorized error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return TokenPair{}, errBadCredentials
	}

	var pair TokenPair
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		u, err := r.Users.GetByEmail(ctx, email)
		if errors.Is(err, repository.ErrNotFound) {
			return errBadCredentials
		}
		if err != nil {
			return err
		}
		if !utils.VerifyPassword(u.PasswordHash, password) {
			return errBadCredentials
		}
		if err := r.Users.TouchLastLogin(ctx, u.ID, time.Now().UTC()); err != nil {
			return err
		}
		pair, err = s.issue(ctx, r, u)
		return err
	})
	if err != nil {
		return TokenPair{}, classify(err)
	}
	return pair, nil
}

// ResolveCurrent maps a bearer token to the identity of its subject.  The
// user row is re-read so a deleted subject or stale role never passes.
func (s *AuthService) ResolveCurrent(ctx context.Context, raw string) (model.Identity, error) {
	claims, err := utils.ParseAccessToken(s.settings.Secret, raw)
	if err != nil {
		return model.Identity{}, apperr.Wrap(apperr.Unauthorized, "could not validate credentials", err)
	}
	var id model.Identity
	err = s.store.Tx(ctx, func(r repository.Repos) error {
		u, err := r.Users.GetByEmail(ctx, claims.Subject)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.Unauthorized, "could not validate credentials")
		}
		if err != nil {
			return err
		}
		id = model.IdentityOf(u)
		return nil
	})
	if err != nil {
		return model.Identity{}, classify(err)
	}
	return id, nil
}

// RequireActive rejects identities whose account is deactivated.
func (s *AuthService) RequireActive(id model.Identity) (model.Identity, error) {
	if !id.IsActive {
		return model.Identity{}, apperr.New(apperr.BadRequest, "inactive user")
	}
	return id, nil
}

// CurrentUser returns the full account record of the caller.
func (s *AuthService) CurrentUser(ctx context.Context, id model.Identity) (model.User, error) {
	var u model.User
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		var err error
		u, err = r.Users.GetByID(ctx, id.UserID)
		return notFound(err, "user not found")
	})
	return u, classify(err)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	if raw == "" {
		return TokenPair{}, apperr.New(apperr.InvalidArgument, "refresh_token is required")
	}
	hash := utils.HashRefreshRaw(raw)

	var pair TokenPair
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		uid, err := r.Tokens.ValidateRefresh(ctx, hash)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.Unauthorized, "invalid refresh token")
		}
		if err != nil {
			return err
		}
		u, err := r.Users.GetByID(ctx, uid)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.New(apperr.Unauthorized, "invalid refresh token")
		}
		if err != nil {
			return err
		}
		if !u.IsActive {
			return apperr.New(apperr.BadRequest, "inactive user")
		}
		if err := r.Tokens.RevokeByHash(ctx, hash); err != nil {
			return err
		}
		pair, err = s.issue(ctx, r, u)
		return err
	})
	if err != nil {
		return TokenPair{}, classify(err)
	}
	return pair, nil
}

// Logout revokes the given refresh token, or every token of the caller
// when raw is empty.
func (s *AuthService) Logout(ctx context.Context, id model.Identity, raw string) error {
	err := s.store.Tx(ctx, func(r repository.Repos) error {
		if raw != "" {
			return r.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(raw))
		}
		return r.Tokens.RevokeAllForUser(ctx, id.UserID)
	})
	return classify(err)
}

func (s *AuthService) issue(ctx context.Context, r repository.Repos, u model.User) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.settings.Secret, u.ID, u.Email, string(u.Role), s.settings.AccessTTLMin)
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.Internal, "issue access token", err)
	}
	refresh, err := utils.NewRefreshToken(s.settings.RefreshTTLDays)
	if err != nil {
		return TokenPair{}, apperr.Wrap(apperr.Internal, "issue refresh token", err)
	}
	if err := r.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access.Token,
		TokenType:    "bearer",
		RefreshToken: refresh.Raw,
		ExpiresAt:    access.Exp,
	}, nil
}
