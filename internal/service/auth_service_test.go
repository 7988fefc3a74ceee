package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quizforge/quizforge-backend/internal/config"
	"github.com/quizforge/quizforge-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

func testAuthService(expiry time.Duration) *AuthService {
	return NewAuthService(&config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  expiry,
		BcryptCost: bcrypt.MinCost,
	})
}

func TestPasswordRoundTrip(t *testing.T) {
	s := testAuthService(time.Hour)

	hash, err := s.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("password stored in plaintext")
	}
	if err := s.CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword with right password: %v", err)
	}
	if err := s.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword with wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := testAuthService(time.Hour)
	user := &model.User{
		ID:   uuid.New(),
		Name: "Ada",
		Role: model.RoleAdmin,
	}

	tokenStr, err := s.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Role != model.RoleAdmin {
		t.Errorf("role = %q, want admin", claims.Role)
	}
	if claims.Name != "Ada" {
		t.Errorf("name = %q, want Ada", claims.Name)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("UserID: %v", err)
	}
	if id != user.ID {
		t.Errorf("subject = %s, want %s", id, user.ID)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := testAuthService(time.Hour)
	verifier := NewAuthService(&config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour, BcryptCost: bcrypt.MinCost})

	tokenStr, err := issuer.GenerateToken(&model.User{ID: uuid.New(), Role: model.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := verifier.ValidateToken(tokenStr); err == nil {
		t.Error("token signed with a different secret validated")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	s := testAuthService(-time.Minute)

	tokenStr, err := s.GenerateToken(&model.User{ID: uuid.New(), Role: model.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := s.ValidateToken(tokenStr); err == nil {
		t.Error("expired token validated")
	}
}
