package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fileshare-api/internal/domain"
	"github.com/fileshare-api/internal/pkg/id"
	pkgtoken "github.com/fileshare-api/internal/pkg/token"
	"github.com/fileshare-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult carries the minted session credential and the role the caller
// should present it as.
type LoginResult struct {
	AccessToken string
	Role        domain.Role
}

type Service interface {
	// Register creates an unverified client account and triggers the
	// verification email (best-effort).
	Register(ctx context.Context, req domain.SignupRequest) (*domain.User, error)
	// VerifyEmail flips the account to verified and invalidates the token.
	VerifyEmail(ctx context.Context, token string) (*domain.User, error)
	// Login authenticates and mints a signed session credential.
	Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error)
	// EnsureOperationsUser idempotently creates a verified operations
	// account. Operations users have no signup path; this runs at startup.
	EnsureOperationsUser(ctx context.Context, email, password string) error
	// VerificationURL builds the absolute verification link for a token.
	VerificationURL(token string) string
}

type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	MarkVerified(ctx context.Context, email string) error
}

type mailSender interface {
	SendEmail(to, subject, body string) error
}

type tokenSigner interface {
	Sign(userID, email string, role domain.Role) (string, error)
}

type service struct {
	users   userStore
	mailer  mailSender
	signer  tokenSigner
	baseURL string
}

func NewService(users userStore, mailer mailSender, signer tokenSigner, baseURL string) Service {
	return &service{users: users, mailer: mailer, signer: signer, baseURL: baseURL}
}

func (s *service) Register(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	verifToken, err := pkgtoken.New()
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		UserID:            id.New(),
		Email:             req.Email,
		PasswordHash:      string(hash),
		Role:              domain.RoleClient,
		Verified:          false,
		VerificationToken: &verifToken,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	// Verification mail is best-effort: a failed send is logged, never
	// surfaced, since the account exists either way.
	link := s.VerificationURL(verifToken)
	body := "Welcome! Verify your email by visiting: " + link
	if err := s.mailer.SendEmail(u.Email, "Verify your email", body); err != nil {
		slog.Warn("failed to send verification email", "email", u.Email, "err", err)
	}
	return u, nil
}

func (s *service) VerificationURL(token string) string {
	return s.baseURL + "/auth/verify/" + token
}

func (s *service) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	u, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("invalid verification token: %w", domain.ErrNotFound)
	}
	if err := s.users.MarkVerified(ctx, u.Email); err != nil {
		return nil, err
	}
	u.Verified = true
	u.VerificationToken = nil
	return u, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*LoginResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	// bcrypt compares against the salted hash in constant time.
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if u.Role == domain.RoleClient && !u.Verified {
		return nil, fmt.Errorf("please verify your email before logging in: %w", domain.ErrForbidden)
	}
	access, err := s.signer.Sign(u.UserID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: access, Role: u.Role}, nil
}

func (s *service) EnsureOperationsUser(ctx context.Context, email, password string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := &domain.User{
		UserID:       id.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleOperations,
		Verified:     true, // operations users are implicitly verified
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		// Lost a startup race with another instance; the account exists.
		if errors.Is(err, domain.ErrConflict) {
			return nil
		}
		return err
	}
	slog.Info("seeded operations user", "email", email)
	return nil
}
