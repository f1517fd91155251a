package service

import (
	"blogapi/internal/models"
	"blogapi/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// bcrypt rejects longer input.
	maxPasswordLength = 72
)

// TokenLifetime is how long an issued token stays valid.
const TokenLifetime = 24 * time.Hour

// Hasher hashes passwords with an embedded random salt.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type bcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}
	return string(hashed), nil
}

func (h *bcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Claims is the token payload: the user's id and display name.
type Claims struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenIssuer issues and verifies signed, expiring identity tokens.
type TokenIssuer interface {
	Issue(identity models.Identity) (string, error)
	Verify(tokenString string) (*models.Identity, error)
}

type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) TokenIssuer {
	return &jwtIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *jwtIssuer) Issue(identity models.Identity) (string, error) {
	now := j.now()
	claims := Claims{
		ID:   identity.ID,
		Name: identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return tokenString, nil
}

func (j *jwtIssuer) Verify(tokenString string) (*models.Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("error parsing token: %w", err)
	}

	if !token.Valid || claims.ID == "" {
		return nil, errors.New("invalid token")
	}

	return &models.Identity{ID: claims.ID, Name: claims.Name}, nil
}

type RegisterRequest struct {
	Name      string
	Email     string
	Password  string
	Password2 string
}

type LoginResult struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (string, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ValidateToken(tokenString string) (*models.Identity, error)
}

type authService struct {
	userRepo repository.UserRepository
	hasher   Hasher
	tokens   TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, hasher Hasher, tokens TokenIssuer) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Register returns a confirmation message; the caller logs in separately.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Password2 == "" {
		return "", models.NewValidationError("Fill in all fields.")
	}

	email := normalizeEmail(req.Email)

	_, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return "", models.NewValidationError("Email already exists.")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", models.NewInternalError(err)
	}

	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return "", models.NewValidationError("Password should be at least 6 characters.")
	}

	if len(req.Password) > maxPasswordLength {
		return "", models.NewValidationError("Password should be at most 72 bytes.")
	}

	if req.Password != req.Password2 {
		return "", models.NewValidationError("Passwords do not match.")
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: hashed,
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return "", &models.AppError{Code: models.CodeValidation, Message: "User registration failed.", Err: err}
	}

	return fmt.Sprintf("New user %s registered.", user.Email), nil
}

// Login answers absent users and wrong passwords with the same error.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, models.NewValidationError("Fill in all fields.")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewValidationError("Invalid Credentials.")
		}
		return nil, models.NewInternalError(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, models.NewValidationError("Invalid Credentials.")
	}

	token, err := s.tokens.Issue(models.Identity{ID: user.UserID, Name: user.Name})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &LoginResult{Token: token, ID: user.UserID, Name: user.Name}, nil
}

func (s *authService) ValidateToken(tokenString string) (*models.Identity, error) {
	return s.tokens.Verify(tokenString)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
