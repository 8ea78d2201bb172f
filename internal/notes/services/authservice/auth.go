package authservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Leopold1975/notes_app/internal/notes/domain/models"
	"github.com/Leopold1975/notes_app/internal/notes/repository/userrepo"
	"github.com/Leopold1975/notes_app/internal/notes/services/captcha"
	"github.com/Leopold1975/notes_app/internal/notes/services/validate"
	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"github.com/Leopold1975/notes_app/internal/pkg/jwtauth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrCaptcha            = captcha.ErrCaptcha
)

type Repository interface {
	CreateUser(context.Context, models.User, models.Password) error
	GetUserByLogin(context.Context, string) (models.User, error)
	GetPassword(context.Context, string) (models.Password, error)
	UpdatePassword(context.Context, models.Password) error
}

type Captcha interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

type AuthService struct {
	userRepo Repository
	captcha  Captcha
	cfg      config.Auth
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func New(userRepo Repository, captcha Captcha, cfg config.Auth) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return &AuthService{
		userRepo: userRepo,
		captcha:  captcha,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (as *AuthService) SignUp(ctx context.Context, req SignUpRequest) (models.User, error) {
	u, p, err := as.newUser(req, models.RoleUser)
	if err != nil {
		return models.User{}, err
	}

	if err := as.captcha.Verify(ctx, req.CaptchaToken, req.RemoteIP); err != nil {
		return models.User{}, fmt.Errorf("captcha error: %w", err)
	}

	if err := as.createUser(ctx, u, p); err != nil {
		return models.User{}, err
	}

	return u, nil
}

// CreateAdmin registers an admin account without a captcha check; it backs
// the operator CLI.
func (as *AuthService) CreateAdmin(ctx context.Context, req SignUpRequest) (models.User, error) {
	u, p, err := as.newUser(req, models.RoleAdmin)
	if err != nil {
		return models.User{}, err
	}

	if err := as.createUser(ctx, u, p); err != nil {
		return models.User{}, err
	}

	return u, nil
}

func (as *AuthService) newUser(req SignUpRequest, role models.Role) (models.User, models.Password, error) {
	errs := validate.Errors{}

	email := validate.Email(errs, "email", req.Email)
	username := validate.Username(errs, "username", req.Username)
	name := validate.Name(errs, "name", req.Name)
	validate.Password(errs, "password", req.Password)
	validate.Confirm(errs, "confirmPassword", req.Password, req.ConfirmPassword)

	if err := errs.Err(); err != nil {
		return models.User{}, models.Password{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), as.cfg.BcryptCost)
	if err != nil {
		return models.User{}, models.Password{}, fmt.Errorf("generate from password error: %w", err)
	}

	now := as.now().UTC()

	u := models.User{
		ID:        uuid.NewString(),
		Email:     email,
		Username:  username,
		Name:      name,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}

	return u, models.Password{UserID: u.ID, Hash: string(hash)}, nil
}

func (as *AuthService) createUser(ctx context.Context, u models.User, p models.Password) error {
	err := as.userRepo.CreateUser(ctx, u, p)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, userrepo.ErrEmailExists):
		return validate.Errors{"email": "A user already exists with this email"}
	case errors.Is(err, userrepo.ErrUsernameExists):
		return validate.Errors{"username": "A user already exists with this username"}
	default:
		return fmt.Errorf("create user error: %w", err)
	}
}

// Login accepts a username or an email. Unknown users still pay for a bcrypt
// comparison so both failure paths take the same time.
func (as *AuthService) Login(ctx context.Context, login, password string) (models.User, error) {
	u, err := as.userRepo.GetUserByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			bcrypt.CompareHashAndPassword(as.dummy(), []byte(password)) //nolint:errcheck

			return models.User{}, ErrInvalidCredentials
		}

		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	if err := as.checkPassword(ctx, u.ID, password); err != nil {
		return models.User{}, err
	}

	return u, nil
}

func (as *AuthService) checkPassword(ctx context.Context, userID, password string) error {
	p, err := as.userRepo.GetPassword(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return ErrInvalidCredentials
		}

		return fmt.Errorf("get password error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}

func (as *AuthService) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	errs := validate.Errors{}

	validate.Password(errs, "newPassword", req.NewPassword)
	validate.Confirm(errs, "confirmNewPassword", req.NewPassword, req.ConfirmPassword)

	if err := errs.Err(); err != nil {
		return err
	}

	if err := as.checkPassword(ctx, req.UserID, req.CurrentPassword); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return validate.Errors{"currentPassword": "Incorrect password"}
		}

		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), as.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("generate from password error: %w", err)
	}

	if err := as.userRepo.UpdatePassword(ctx, models.Password{UserID: req.UserID, Hash: string(hash)}); err != nil {
		return fmt.Errorf("update password error: %w", err)
	}

	return nil
}

func (as *AuthService) IssueToken(u models.User) (string, error) {
	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

func (as *AuthService) Authenticate(token string) (jwtauth.Claims, error) {
	claims, err := jwtauth.ParseToken(token, as.cfg.Secret)
	if err != nil {
		return jwtauth.Claims{}, fmt.Errorf("parse token error: %w", err)
	}

	return claims, nil
}

func (as *AuthService) dummy() []byte {
	as.dummyOnce.Do(func() {
		as.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy password"), as.cfg.BcryptCost)
	})

	return as.dummyHash
}
