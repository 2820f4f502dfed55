package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deepagents/control/backend/auth"
	"github.com/deepagents/control/backend/memory/test"
	"github.com/deepagents/control/shared/config"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func authConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:  "test-secret",
		Issuer:     "deepagents-test",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	db := test.NewDatabase(t)
	service, err := auth.NewService(db, authConfig())
	if err != nil {
		t.Fatal(err)
	}

	u, err := service.Register(ctx, auth.Registration{
		Email:    " Grace@Example.com ",
		Username: "grace",
		Password: "hopper-1906",
		FullName: "Grace Hopper",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "grace@example.com" || !u.IsActive || u.IsSuperuser {
		t.Errorf("unexpected user: %+v", u)
	}
	if u.HashedPassword == "hopper-1906" {
		t.Error("password stored in clear text")
	}

	tests := []struct {
		name string
		reg  auth.Registration
		want error
	}{
		{
			name: "duplicate username",
			reg:  auth.Registration{Email: "other@example.com", Username: "grace", Password: "hopper-1906"},
			want: auth.ErrUserExists,
		},
		{
			name: "duplicate email",
			reg:  auth.Registration{Email: "grace@example.com", Username: "other", Password: "hopper-1906"},
			want: auth.ErrUserExists,
		},
		{
			name: "short password",
			reg:  auth.Registration{Email: "x@example.com", Username: "x", Password: "short"},
			want: auth.ErrInvalidInput,
		},
		{
			name: "invalid email",
			reg:  auth.Registration{Email: "not-an-email", Username: "y", Password: "long-enough"},
			want: auth.ErrInvalidInput,
		},
		{
			name: "missing username",
			reg:  auth.Registration{Email: "z@example.com", Password: "long-enough"},
			want: auth.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(ctx, tt.reg)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	db := test.NewDatabase(t)
	service, err := auth.NewService(db, authConfig())
	if err != nil {
		t.Fatal(err)
	}

	active := test.NewUserBuilder(t, db).Build(ctx)
	test.NewUserBuilder(t, db).WithID(test.UserID2()).WithUsername("bob").WithActive(false).Build(ctx)

	tests := []struct {
		name     string
		login    string
		password string
		wantID   uuid.UUID
		wantErr  error
	}{
		{name: "username", login: "ada", password: test.UserPassword, wantID: active.ID},
		{name: "email", login: "ada@example.com", password: test.UserPassword, wantID: active.ID},
		{name: "wrong password", login: "ada", password: "battery-staple", wantErr: auth.ErrInvalidCredentials},
		{name: "unknown user", login: "nobody", password: test.UserPassword, wantErr: auth.ErrInvalidCredentials},
		{name: "inactive user", login: "bob", password: test.UserPassword, wantErr: auth.ErrInactiveUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := service.Authenticate(ctx, tt.login, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && u.ID != tt.wantID {
				t.Errorf("authenticated %s, want %s", u.ID, tt.wantID)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := test.NewDatabase(t)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	service, err := auth.NewService(db, authConfig(), auth.WithClock(clock))
	if err != nil {
		t.Fatal(err)
	}

	u := test.NewUserBuilder(t, db).Build(ctx)
	token, err := service.IssueToken(u)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if diff := cmp.Diff(auth.Token{TokenType: "bearer", ExpiresIn: time.Hour}, *token, cmpopts.IgnoreFields(auth.Token{}, "AccessToken")); diff != "" {
		t.Errorf("token mismatch (-want +got):\n%s", diff)
	}

	resolved, err := service.Resolve(ctx, token.AccessToken)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.ID != u.ID {
		t.Errorf("resolved %s, want %s", resolved.ID, u.ID)
	}

	now = now.Add(2 * time.Hour)
	if _, err := service.ParseToken(token.AccessToken); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestParseTokenRejectsForeignTokens(t *testing.T) {
	db := test.NewDatabase(t)
	ctx := context.Background()
	u := test.NewUserBuilder(t, db).Build(ctx)

	service, err := auth.NewService(db, authConfig())
	if err != nil {
		t.Fatal(err)
	}

	otherSecret := authConfig()
	otherSecret.JWTSecret = "another-secret"
	otherIssuer := authConfig()
	otherIssuer.Issuer = "someone-else"

	for name, cfg := range map[string]config.AuthConfig{"secret": otherSecret, "issuer": otherIssuer} {
		t.Run(name, func(t *testing.T) {
			foreign, err := auth.NewService(db, cfg)
			if err != nil {
				t.Fatal(err)
			}
			token, err := foreign.IssueToken(u)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := service.ParseToken(token.AccessToken); !errors.Is(err, auth.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	if _, err := service.ParseToken("not.a.token"); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestResolveInactiveUser(t *testing.T) {
	ctx := context.Background()
	db := test.NewDatabase(t)
	service, err := auth.NewService(db, authConfig())
	if err != nil {
		t.Fatal(err)
	}

	u := test.NewUserBuilder(t, db).Build(ctx)
	token, err := service.IssueToken(u)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := db.User.UpdateOneID(u.ID).SetIsActive(false).Save(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := service.Resolve(ctx, token.AccessToken); !errors.Is(err, auth.ErrInactiveUser) {
		t.Fatalf("expected ErrInactiveUser, got %v", err)
	}
}

func TestNewServiceRequiresSecret(t *testing.T) {
	cfg := authConfig()
	cfg.JWTSecret = ""
	if _, err := auth.NewService(nil, cfg); err == nil {
		t.Fatal("expected error without secret")
	}
}
