package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MrOportus/Tasklist/internal/model"
	"github.com/MrOportus/Tasklist/internal/repository"
)

const sessionTTL = 30 * 24 * time.Hour

// Session holds the authenticated identity and its bearer token.
type Session struct {
	User  model.User
	Token string
}

// sessionClaims is the JWT payload minted on login.
type sessionClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenCache persists the session token between runs. Implemented by
// prefs.TokenCache; nil disables caching.
type TokenCache interface {
	Save(token string) error
	Load() (string, error)
	Delete() error
}

// AuthService is the credential gate: it authenticates against the account
// store, tracks the current identity and notifies observers when it changes.
// It does not tear down subscriptions or the scheduler itself; whoever wires
// the session reacts to the identity-change notification.
type AuthService struct {
	userRepo *repository.UserRepository
	secret   []byte
	cache    TokenCache

	mu        sync.Mutex
	session   *Session
	observers []func(*model.User)
}

func NewAuthService(userRepo *repository.UserRepository, tokenSecret string, cache TokenCache) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(tokenSecret),
		cache:    cache,
	}
}

// OnIdentityChange registers an observer called on every identity
// transition: none→some on login, some→none on logout, and substitution
// when a different user logs in over an existing session.
func (s *AuthService) OnIdentityChange(fn func(*model.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Current returns the authenticated user, or nil without a session.
func (s *AuthService) Current() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	u := s.session.User
	return &u
}

// Register creates an account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{Email: email, PasswordHash: string(hash)}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return nil, err
	}

	return s.openSession(user)
}

// Login authenticates email/password and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("find account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(*user)
}

// ResumeCached restores a session from the token cache, if one is stored
// and still valid.
func (s *AuthService) ResumeCached(ctx context.Context) (*Session, error) {
	if s.cache == nil {
		return nil, ErrInvalidToken
	}
	token, err := s.cache.Load()
	if err != nil || token == "" {
		return nil, ErrInvalidToken
	}
	return s.Resume(ctx, token)
}

// Resume restores a session from a previously issued token.
func (s *AuthService) Resume(ctx context.Context, token string) (*Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return s.openSession(*user)
}

// Logout tears down the session and notifies observers.
func (s *AuthService) Logout() error {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.session = nil
	observers := append([]func(*model.User){}, s.observers...)
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Delete(); err != nil {
			log.Printf("auth: drop cached token: %v", err)
		}
	}

	for _, fn := range observers {
		fn(nil)
	}
	return nil
}

func (s *AuthService) openSession(user model.User) (*Session, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	sess := &Session{User: user, Token: token}

	if s.cache != nil {
		if err := s.cache.Save(token); err != nil {
			log.Printf("auth: cache token: %v", err)
		}
	}

	s.mu.Lock()
	s.session = sess
	observers := append([]func(*model.User){}, s.observers...)
	s.mu.Unlock()

	u := user
	for _, fn := range observers {
		fn(&u)
	}
	return sess, nil
}
