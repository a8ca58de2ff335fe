package services

import (
	"context"
	"testing"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/memstore"
)

func newAuth(t *testing.T) AuthService {
	t.Helper()
	svc := AuthService{Operators: memstore.New().Operators(), Secret: []byte("test-secret"), RequestID: "test"}
	if err := svc.EnsureOperator(context.Background(), "hadi", "Ust. Hadi", "rahasia"); err != nil {
		t.Fatalf("seed operator: %v", err)
	}
	return svc
}

func TestLoginAndParseToken(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()

	token, op, err := svc.Login(ctx, " hadi ", "rahasia")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if op.Username != "hadi" || op.Name != "Ust. Hadi" || token == "" {
		t.Fatalf("unexpected login result %+v", op)
	}

	parsed, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != op {
		t.Fatalf("claims mismatch: %+v vs %+v", parsed, op)
	}

	other := svc
	other.Secret = []byte("other-secret")
	if _, err := other.ParseToken(token); !domain.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized for foreign secret, got %v", err)
	}
}

func TestLoginRejected(t *testing.T) {
	svc := newAuth(t)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "hadi", "salah"); !domain.IsUnauthorized(err) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "rahasia"); !domain.IsUnauthorized(err) {
		t.Fatalf("unknown user: %v", err)
	}
	if _, _, err := svc.Login(ctx, "", ""); !domain.IsValidation(err) {
		t.Fatalf("blank input: %v", err)
	}
}

func TestNonPositiveTTLUsesDefault(t *testing.T) {
	svc := newAuth(t)
	svc.TTL = -time.Minute
	token, err := svc.issue(domain.Operator{ID: "o1", Username: "hadi"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ParseToken(token); err != nil {
		t.Fatalf("default ttl token should parse: %v", err)
	}
	if _, err := svc.ParseToken("not-a-token"); !domain.IsUnauthorized(err) {
		t.Fatalf("garbage token: %v", err)
	}
}

func TestEnsureOperatorIdempotent(t *testing.T) {
	svc := newAuth(t)
	if err := svc.EnsureOperator(context.Background(), "hadi", "Lain", "baru"); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "hadi", "rahasia"); err != nil {
		t.Fatalf("original password should still work: %v", err)
	}
}
