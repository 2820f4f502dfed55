package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/user"
	"github.com/deepagents/control/shared/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrUserExists         = errors.New("username or email already registered")
	ErrInvalidInput       = errors.New("invalid input")
)

type Token struct {
	AccessToken string
	TokenType   string
	ExpiresIn   time.Duration
}

type Registration struct {
	Email    string
	Username string
	Password string
	FullName string
}

// Service registers users, verifies passwords and issues bearer tokens.
type Service struct {
	db     *memory.Client
	cfg    config.AuthConfig
	secret []byte
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock used for token timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(db *memory.Client, cfg config.AuthConfig, opts ...Option) (*Service, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("auth: jwt secret is required")
	}
	s := &Service{
		db:     db,
		cfg:    cfg,
		secret: []byte(cfg.JWTSecret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Register(ctx context.Context, r Registration) (*memory.User, error) {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Username = strings.TrimSpace(r.Username)

	if _, err := mail.ParseAddress(r.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if r.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(r.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u, err := s.db.User.Create().
		SetEmail(r.Email).
		SetUsername(r.Username).
		SetFullName(r.FullName).
		SetHashedPassword(string(hash)).
		Save(ctx)
	if err != nil {
		if memory.IsUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

// Authenticate checks the password of the user identified by username or
// email.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*memory.User, error) {
	u, err := s.db.User.Query().Where(user.UsernameOrEmail(strings.TrimSpace(login))).First(ctx)
	if err != nil {
		if memory.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return u, nil
}

func (s *Service) IssueToken(u *memory.User) (*Token, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID.String(),
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	return &Token{AccessToken: signed, TokenType: "bearer", ExpiresIn: s.cfg.TokenTTL}, nil
}

// ParseToken verifies the signature, issuer and expiry of token and returns
// the user id it was issued for.
func (s *Service) ParseToken(token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}
	return id, nil
}

// Resolve returns the active user a bearer token belongs to.
func (s *Service) Resolve(ctx context.Context, token string) (*memory.User, error) {
	id, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}

	u, err := s.db.User.Get(ctx, id)
	if err != nil {
		if memory.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return u, nil
}

type contextKey struct{}

func WithUser(ctx context.Context, u *memory.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// UserFromContext returns the authenticated user, or nil for anonymous
// requests.
func UserFromContext(ctx context.Context) *memory.User {
	u, _ := ctx.Value(contextKey{}).(*memory.User)
	return u
}
