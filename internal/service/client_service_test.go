package service

import (
	"context"
	"testing"
	"time"

	"food-court/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/crypto/bcrypt"
)

type mockClientRepository struct {
	clients map[string]*domain.Client
}

func newMockClientRepository() *mockClientRepository {
	return &mockClientRepository{clients: make(map[string]*domain.Client)}
}

func (m *mockClientRepository) Create(ctx context.Context, client *domain.Client) error {
	if _, exists := m.clients[client.Email]; exists {
		return domain.Conflictf("client with this email already exists")
	}
	m.clients[client.Email] = client
	return nil
}

func (m *mockClientRepository) FindByEmail(ctx context.Context, email string) (*domain.Client, error) {
	client, exists := m.clients[email]
	if !exists {
		return nil, domain.NotFoundf("client not found")
	}
	return client, nil
}

func (m *mockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	for _, client := range m.clients {
		if client.ID == id {
			return client, nil
		}
	}
	return nil, domain.NotFoundf("client not found")
}

func TestProperty_RegistrationCreatesHashedPasswords(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("passwords are hashed with bcrypt and not stored as plaintext", prop.ForAll(
		func(name string, email string, password string) bool {
			repo := newMockClientRepository()
			service := NewClientService(repo, "test-secret", time.Hour)
			ctx := context.Background()

			client, err := service.Register(ctx, name, email, password)
			if err != nil {
				return true
			}

			if client.PasswordHash == password {
				t.Logf("FAIL: Password stored as plaintext for email %s", email)
				return false
			}

			err = bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(password))
			if err != nil {
				t.Logf("FAIL: Password hash is not a valid bcrypt hash or doesn't match: %v", err)
				return false
			}

			stored, err := repo.FindByEmail(ctx, email)
			if err != nil {
				t.Logf("FAIL: Could not find stored client: %v", err)
				return false
			}

			return stored.PasswordHash == client.PasswordHash
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_LoginTokensCarryClientClaims(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("login issues a valid token with the client id and role", prop.ForAll(
		func(name string, email string, password string) bool {
			repo := newMockClientRepository()
			secret := "test-secret-key"
			service := NewClientService(repo, secret, time.Hour)
			ctx := context.Background()

			registered, err := service.Register(ctx, name, email, password)
			if err != nil {
				return true
			}

			token, client, err := service.Login(ctx, email, password)
			if err != nil {
				t.Logf("FAIL: Login failed: %v", err)
				return false
			}
			if client.ID != registered.ID {
				t.Logf("FAIL: Login returned a different client")
				return false
			}

			claims := &Claims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !parsed.Valid {
				t.Logf("FAIL: Token validation failed: %v", err)
				return false
			}

			if claims.UserID != registered.ID {
				t.Logf("FAIL: User ID claim mismatch. Expected %s, got %s", registered.ID, claims.UserID)
				return false
			}
			if claims.Role != domain.RoleClient {
				t.Logf("FAIL: Role claim mismatch. Expected client, got %s", claims.Role)
				return false
			}
			if claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
				t.Logf("FAIL: Token missing or past expiration")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	repo := newMockClientRepository()
	service := NewClientService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	if _, err := service.Register(ctx, "Ana", "ana@example.com", "Sup3rSecret!"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}

	_, err := service.Register(ctx, "Ana Again", "ana@example.com", "An0therSecret!")
	if !domain.IsKind(err, domain.KindConflict) {
		t.Errorf("expected conflict for duplicate email, got %v", err)
	}
}

func TestLogin_FailsIdenticallyForBadEmailAndBadPassword(t *testing.T) {
	repo := newMockClientRepository()
	service := NewClientService(repo, "test-secret", time.Hour)
	ctx := context.Background()

	if _, err := service.Register(ctx, "Ana", "ana@example.com", "Sup3rSecret!"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	_, _, errMissing := service.Login(ctx, "nobody@example.com", "Sup3rSecret!")
	_, _, errWrongPwd := service.Login(ctx, "ana@example.com", "WrongPassword1!")

	if !domain.IsKind(errMissing, domain.KindUnauthorized) {
		t.Errorf("expected unauthorized for unknown email, got %v", errMissing)
	}
	if !domain.IsKind(errWrongPwd, domain.KindUnauthorized) {
		t.Errorf("expected unauthorized for wrong password, got %v", errWrongPwd)
	}
	if errMissing.Error() != errWrongPwd.Error() {
		t.Errorf("login failures leak account existence: %q vs %q", errMissing, errWrongPwd)
	}
}
