package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == entity.NormalizeEmail(user.Email) {
			return domainerror.ErrEmailAlreadyExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == entity.NormalizeEmail(email) {
			return u, nil
		}
	}
	return nil, domainerror.ErrUserNotFound
}

func (r *fakeUserRepo) Update(context.Context, uuid.UUID, entity.UserPatch) (*entity.User, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

type fakePasswordService struct{}

func (fakePasswordService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordService) VerifyPassword(hashed, password string) error {
	if hashed != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func (fakePasswordService) ValidatePasswordStrength(password string) error {
	if len(password) < 6 {
		return domainerror.ErrWeakPassword
	}
	return nil
}

type fakeTokenService struct {
	revoked []string
}

func (s *fakeTokenService) Issue(_ context.Context, user *entity.User) (*adapter.IssuedToken, error) {
	return &adapter.IssuedToken{Token: "token-" + user.ID.String(), ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (s *fakeTokenService) Verify(context.Context, string) (*adapter.TokenClaims, error) {
	return nil, domainerror.ErrInvalidToken
}

func (s *fakeTokenService) Revoke(_ context.Context, claims *adapter.TokenClaims) error {
	s.revoked = append(s.revoked, claims.TokenID)
	return nil
}

type fakeEmailService struct {
	welcome []adapter.QueueWelcomeInput
}

func (s *fakeEmailService) QueueWelcomeEmail(_ context.Context, input adapter.QueueWelcomeInput) error {
	s.welcome = append(s.welcome, input)
	return nil
}

func (s *fakeEmailService) QueueGoalReachedEmail(context.Context, adapter.QueueGoalReachedInput) error {
	return nil
}

func assertKind(t *testing.T, err error, kind domainerror.Kind) {
	t.Helper()
	var coded domainerror.Coded
	if !errors.As(err, &coded) {
		t.Fatalf("expected a coded error, got %v", err)
	}
	if coded.Kind() != kind {
		t.Errorf("expected kind %s, got %s (%s)", kind, coded.Kind(), coded.ErrorCode())
	}
}

func TestRegisterUserUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and issues a token", func(t *testing.T) {
		repo := newFakeUserRepo()
		emails := &fakeEmailService{}
		uc := NewRegisterUserUseCase(repo, fakePasswordService{}, &fakeTokenService{}, emails)

		out, err := uc.Execute(ctx, RegisterUserInput{Name: "  Ana ", Email: "Ana@X.com", Password: "secret1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.User.Name != "Ana" || out.User.Email != "ana@x.com" {
			t.Errorf("expected trimmed name and lowercase email, got %q %q", out.User.Name, out.User.Email)
		}
		if out.User.PasswordHash == "secret1" {
			t.Error("password must be hashed")
		}
		if !strings.HasPrefix(out.Token.Token, "token-") {
			t.Errorf("unexpected token %q", out.Token.Token)
		}
		if len(emails.welcome) != 1 || emails.welcome[0].UserEmail != "ana@x.com" {
			t.Errorf("expected a welcome email, got %+v", emails.welcome)
		}
	})

	t.Run("works without an email service", func(t *testing.T) {
		uc := NewRegisterUserUseCase(newFakeUserRepo(), fakePasswordService{}, &fakeTokenService{}, nil)
		if _, err := uc.Execute(ctx, RegisterUserInput{Name: "Ana", Email: "ana@x.com", Password: "secret1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	validation := []struct {
		name  string
		input RegisterUserInput
		code  domainerror.AuthErrorCode
	}{
		{name: "short name", input: RegisterUserInput{Name: " A ", Email: "ana@x.com", Password: "secret1"}, code: domainerror.ErrCodeInvalidName},
		{name: "email without domain dot", input: RegisterUserInput{Name: "Ana", Email: "ana@x", Password: "secret1"}, code: domainerror.ErrCodeInvalidEmail},
		{name: "email with space", input: RegisterUserInput{Name: "Ana", Email: "a na@x.com", Password: "secret1"}, code: domainerror.ErrCodeInvalidEmail},
		{name: "short password", input: RegisterUserInput{Name: "Ana", Email: "ana@x.com", Password: "12345"}, code: domainerror.ErrCodeWeakPassword},
	}
	for _, tt := range validation {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewRegisterUserUseCase(newFakeUserRepo(), fakePasswordService{}, &fakeTokenService{}, nil)
			_, err := uc.Execute(ctx, tt.input)

			var authErr *domainerror.AuthError
			if !errors.As(err, &authErr) {
				t.Fatalf("expected AuthError, got %v", err)
			}
			if authErr.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, authErr.Code)
			}
			assertKind(t, err, domainerror.KindValidation)
		})
	}

	t.Run("duplicate email ignoring case is a conflict", func(t *testing.T) {
		repo := newFakeUserRepo()
		uc := NewRegisterUserUseCase(repo, fakePasswordService{}, &fakeTokenService{}, nil)
		if _, err := uc.Execute(ctx, RegisterUserInput{Name: "Ana", Email: "ana@x.com", Password: "secret1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := uc.Execute(ctx, RegisterUserInput{Name: "Ana", Email: "ANA@x.com", Password: "secret1"})
		if !errors.Is(err, domainerror.ErrEmailAlreadyExists) {
			t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
		}
		assertKind(t, err, domainerror.KindConflict)
	})
}

func TestLoginUserUseCase(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	register := NewRegisterUserUseCase(repo, fakePasswordService{}, &fakeTokenService{}, nil)
	registered, err := register.Execute(ctx, RegisterUserInput{Name: "Ana", Email: "ana@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}
	uc := NewLoginUserUseCase(repo, fakePasswordService{}, &fakeTokenService{})

	t.Run("valid credentials return the same identity", func(t *testing.T) {
		out, err := uc.Execute(ctx, LoginUserInput{Email: "ANA@x.com", Password: "secret1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.User.ID != registered.User.ID {
			t.Errorf("expected user %s, got %s", registered.User.ID, out.User.ID)
		}
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		_, wrongPassword := uc.Execute(ctx, LoginUserInput{Email: "ana@x.com", Password: "nope123"})
		_, unknownEmail := uc.Execute(ctx, LoginUserInput{Email: "bob@x.com", Password: "secret1"})

		for _, err := range []error{wrongPassword, unknownEmail} {
			if !errors.Is(err, domainerror.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			assertKind(t, err, domainerror.KindUnauthorized)
		}
		if wrongPassword.Error() != unknownEmail.Error() {
			t.Errorf("messages differ: %q vs %q", wrongPassword, unknownEmail)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := uc.Execute(ctx, LoginUserInput{Email: "ana@x.com"})
		assertKind(t, err, domainerror.KindValidation)
	})
}

func TestGetCurrentUserUseCase(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	user := entity.NewUser("Ana", "ana@x.com", "hash")
	_ = repo.Create(ctx, user)
	uc := NewGetCurrentUserUseCase(repo)

	out, err := uc.Execute(ctx, GetCurrentUserInput{UserID: user.ID})
	if err != nil || out.User.ID != user.ID {
		t.Fatalf("expected user, got %v (err %v)", out, err)
	}

	_, err = uc.Execute(ctx, GetCurrentUserInput{UserID: uuid.New()})
	assertKind(t, err, domainerror.KindUnauthorized)
}

func TestLogoutUserUseCase(t *testing.T) {
	tokens := &fakeTokenService{}
	uc := NewLogoutUserUseCase(tokens)

	out, err := uc.Execute(context.Background(), LogoutUserInput{Claims: &adapter.TokenClaims{TokenID: "jti-1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Message == "" {
		t.Error("expected a message")
	}
	if len(tokens.revoked) != 1 || tokens.revoked[0] != "jti-1" {
		t.Errorf("expected jti-1 revoked, got %v", tokens.revoked)
	}
}
