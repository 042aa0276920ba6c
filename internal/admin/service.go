package admin

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is how long an issued admin token stays valid.
const DefaultTokenTTL = 72 * time.Hour

type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(repo Repository, secret string) *Service {
	return &Service{repo: repo, secret: []byte(secret), ttl: DefaultTokenTTL, now: time.Now}
}

// Register stores a new admin with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, a Admin) (Admin, error) {
	a.Email = strings.TrimSpace(a.Email)
	if a.Email == "" || a.Password == "" {
		return Admin{}, ErrInvalidCredentials
	}
	if _, err := s.repo.GetByEmail(ctx, a.Email); err == nil {
		return Admin{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return Admin{}, err
	}

	if !looksLikeBcrypt(a.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return Admin{}, err
		}
		a.Password = string(hashed)
	}
	a.CreatedAt = s.now().UTC()
	return s.repo.Create(ctx, a)
}

// EnsureAdmin creates the bootstrap admin unless an account with that email
// already exists. It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	_, err := s.Register(ctx, Admin{Email: email, Password: password})
	if errors.Is(err, ErrEmailExists) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (Admin, error) {
	a, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return Admin{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) != nil {
		return Admin{}, ErrInvalidCredentials
	}
	return a, nil
}

// IssueToken signs an HS256 token for a.
func (s *Service) IssueToken(a Admin) (string, error) {
	claims := jwt.MapClaims{
		"admin_id": a.ID,
		"email":    a.Email,
		"exp":      s.now().Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func looksLikeBcrypt(value string) bool {
	return len(value) > 4 && value[0:2] == "$2"
}
