package services

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"serverhub/internal/models"
	"serverhub/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles business logic for registration, login, email
// verification and JWT validation.
type AuthService struct {
	userRepo   repositories.UserRepository
	publisher  Publisher
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService. publisher may be nil, in which
// case email notification events are skipped.
func NewAuthService(userRepo repositories.UserRepository, publisher Publisher, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		publisher:  publisher,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 7 * 24 * time.Hour,
	}
}

// RegisterUser registers a new unverified user, hashes their password and
// queues a verification email event.
func (s *AuthService) RegisterUser(username, email, password string) (*models.User, error) {
	// Username and email uniqueness are case-insensitive.
	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, fmt.Errorf("username '%s' already taken", username)
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("email '%s' already registered", email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	verificationToken := hex.EncodeToString(tokenBytes)

	user := &models.User{
		Username:          username,
		Email:             email,
		Password:          string(hashedPassword),
		VerificationToken: &verificationToken,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.publishEvent("notification.verification_email", map[string]interface{}{
		"id":       uuid.New().String(),
		"type":     "verification_email",
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"token":    verificationToken,
	})

	return user, nil
}

// LoginUser authenticates a user by email and returns a signed JWT.
// Unverified accounts are rejected.
func (s *AuthService) LoginUser(email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("invalid credentials")
	}

	if !user.IsVerified {
		return "", nil, fmt.Errorf("email not verified")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, user, nil
}

// VerifyEmail redeems a verification token: it marks the user verified and
// clears the token, so redemption works exactly once.
func (s *AuthService) VerifyEmail(token string) error {
	user, err := s.userRepo.GetByVerificationToken(token)
	if err != nil {
		return fmt.Errorf("invalid or expired token")
	}

	user.IsVerified = true
	user.VerificationToken = nil
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) publishEvent(routingKey string, event map[string]interface{}) {
	if s.publisher == nil {
		log.Println("Message publisher is not initialized. Skipping notification event.")
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal notification event: %v", err)
		return
	}
	if err := s.publisher.Publish(routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
	}
}
