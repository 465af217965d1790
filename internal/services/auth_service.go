package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/patlouis/e-commerce-bookstore/internal/models"
	"github.com/patlouis/e-commerce-bookstore/internal/repositories"
)

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration // Duration for which a token is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// RegisterUser registers a new customer, hashes their password, and saves them to the database.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) error {
	if err := checkPasswordStrength(user.Password); err != nil {
		return err
	}
	user.Role = models.RoleCustomer
	return s.createUser(ctx, user)
}

// EnsureAdmin creates an admin account unless a user with the email already exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return err
	}
	admin := &models.User{Username: username, Email: email, Password: password, Role: models.RoleAdmin}
	if err := s.createUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed admin %s: %w", email, err)
	}
	log.Printf("Seeded admin account %s", email)
	return nil
}

func (s *AuthService) createUser(ctx context.Context, user *models.User) error {
	// Check if username or email already exists
	if existing, err := s.userRepo.GetByUsername(ctx, user.Username); err == nil && existing != nil {
		return fmt.Errorf("username '%s' already taken: %w", user.Username, models.ErrConflict)
	}
	if existing, err := s.userRepo.GetByEmail(ctx, user.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s' already registered: %w", user.Email, models.ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user by email and returns a signed token.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}
	return s.IssueToken(user.ID, user.Role)
}

// IssueToken signs a token carrying the user's id and role.
func (s *AuthService) IssueToken(userID string, role models.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   userID,
		"role": int(role),
		"exp":  now.Add(s.tokenTTL).Unix(),
		"iat":  now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Authenticate verifies a token and resolves the caller's identity.
func (s *AuthService) Authenticate(tokenString string) (models.Identity, error) {
	if strings.TrimSpace(tokenString) == "" {
		return models.Identity{}, fmt.Errorf("missing token: %w", models.ErrUnauthenticated)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return models.Identity{}, fmt.Errorf("invalid token: %v: %w", err, models.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Identity{}, fmt.Errorf("invalid token: %w", models.ErrUnauthenticated)
	}
	// MapClaims.Valid accepts tokens without exp; ours must always expire.
	if !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		return models.Identity{}, fmt.Errorf("token has no valid expiry: %w", models.ErrUnauthenticated)
	}

	userID, _ := claims["id"].(string)
	if userID == "" {
		return models.Identity{}, fmt.Errorf("token has no subject: %w", models.ErrUnauthenticated)
	}
	code, ok := claims["role"].(float64)
	if !ok {
		return models.Identity{}, fmt.Errorf("token has no role: %w", models.ErrUnauthenticated)
	}
	role, err := models.ParseRole(int(code))
	if err != nil {
		return models.Identity{}, fmt.Errorf("%v: %w", err, models.ErrUnauthenticated)
	}

	return models.Identity{UserID: userID, Role: role}, nil
}

// Authorize allows the identity if it holds one of the required roles.
func (s *AuthService) Authorize(identity models.Identity, required ...models.Role) error {
	if !identity.HasRole(required...) {
		return fmt.Errorf("role %s not permitted: %w", identity.Role, models.ErrForbidden)
	}
	return nil
}

// checkPasswordStrength requires at least 8 characters with an upper-case
// letter, a lower-case letter, a digit and a symbol.
func checkPasswordStrength(password string) error {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || r == '_':
			symbol = true
		}
	}
	if len([]rune(password)) < 8 || !upper || !lower || !digit || !symbol {
		return fmt.Errorf("password must be at least 8 characters and include upper-case, lower-case, number and special character: %w", models.ErrValidation)
	}
	return nil
}
