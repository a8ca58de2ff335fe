package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"busbooking/internal/domain"
	"busbooking/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 24 * time.Hour

var errBadCredentials = domain.UnauthorizedError{Msg: "username atau password salah"}

// AuthService logs operators (petugas) in and verifies their tokens.
type AuthService struct {
	Operators OperatorStore
	Secret    []byte
	TTL       time.Duration
	RequestID string
}

type operatorClaims struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// Login checks the bcrypt hash and returns a signed HS256 token.
func (s AuthService) Login(ctx context.Context, username, password string) (string, domain.Operator, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", domain.Operator{}, domain.ValidationError{Msg: "username dan password wajib diisi"}
	}
	op, hash, err := s.Operators.FindByUsername(ctx, username)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", domain.Operator{}, errBadCredentials
		}
		return "", domain.Operator{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		utils.LogEvent(s.RequestID, "auth", "login_failed", "username="+username)
		return "", domain.Operator{}, errBadCredentials
	}

	token, err := s.issue(op)
	if err != nil {
		return "", domain.Operator{}, err
	}
	utils.LogEvent(s.RequestID, "auth", "login", "operator_id="+op.ID)
	return token, op, nil
}

func (s AuthService) issue(op domain.Operator) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := time.Now()
	claims := operatorClaims{
		Username: op.Username,
		Name:     op.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   op.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("gagal membuat token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature and expiry and returns the operator in it.
func (s AuthService) ParseToken(token string) (domain.Operator, error) {
	var claims operatorClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Operator{}, domain.UnauthorizedError{Msg: "token kedaluwarsa"}
		}
		return domain.Operator{}, domain.UnauthorizedError{Msg: "token tidak valid"}
	}
	return domain.Operator{ID: claims.Subject, Username: claims.Username, Name: claims.Name}, nil
}

// EnsureOperator creates the operator when the username is free. Used to
// seed a first account at startup.
func (s AuthService) EnsureOperator(ctx context.Context, username, name, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.ValidationError{Msg: "username dan password operator wajib diisi"}
	}
	if _, _, err := s.Operators.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !domain.IsNotFound(err) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("gagal meng-hash password: %w", err)
	}
	op := domain.Operator{ID: uuid.NewString(), Username: username, Name: utils.Fallback(name, username)}
	if err := s.Operators.Insert(ctx, op, string(hash)); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "auth", "seed_operator", "username="+username)
	return nil
}
