package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUsernameTaken is returned by Register for a duplicate username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned by Login for a bad username/password pair.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned by VerifyToken for an expired or forged token.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// User is a registered account.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore persists accounts. The lookups return nil, nil when no such
// account exists.
type UserStore interface {
	Create(ctx context.Context, user User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// Credentials is what a successful register or login hands back to the
// client. The user ID inside the token ("sub") is the one canonical
// identity key; stores and the grocery check state are all keyed by it.
type Credentials struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Service implements registration, login and token verification.
type Service struct {
	store  UserStore
	secret []byte
	ttl    time.Duration
}

// NewService creates an auth Service signing tokens with the given secret.
func NewService(store UserStore, secret string, ttl time.Duration) *Service {
	return &Service{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Register creates an account and returns fresh credentials.
func (s *Service) Register(ctx context.Context, username, password string) (*Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issue(user.ID, user.Username)
}

// Login checks a username/password pair and returns fresh credentials.
func (s *Service) Login(ctx context.Context, username, password string) (*Credentials, error) {
	user, err := s.store.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to look up username: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user.ID, user.Username)
}

// Profile retrieves an account by its ID. Returns nil, nil when no such
// account exists.
func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	return user, nil
}

// VerifyToken validates a bearer token and returns the user ID it names.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}

func (s *Service) issue(userID, username string) (*Credentials, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    "plateplanner",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &Credentials{Token: signed, UserID: userID}, nil
}
