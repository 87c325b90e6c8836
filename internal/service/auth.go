package service

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/platefinder/platefinder-backend/internal/models"
	"github.com/platefinder/platefinder-backend/internal/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionExpired     = errors.New("session has expired")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthEvent identifies a change in authentication state.
type AuthEvent string

const (
	EventSignedIn  AuthEvent = "SIGNED_IN"
	EventSignedOut AuthEvent = "SIGNED_OUT"
)

// Subscription is a handle for an auth-state listener. Callers must
// Unsubscribe when done or the listener leaks for the service lifetime.
type Subscription struct {
	id  int
	svc *AuthService
}

// Unsubscribe removes the listener. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.svc.mu.Lock()
	defer s.svc.mu.Unlock()
	delete(s.svc.listeners, s.id)
}

// AuthService owns credentials, tokens, and session lifecycle.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration

	mu        sync.Mutex
	listeners map[int]func(AuthEvent, *models.Session)
	nextSubID int
}

// NewAuthService creates a new AuthService instance
func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		tokenTTL:  24 * time.Hour,
		listeners: make(map[int]func(AuthEvent, *models.Session)),
	}
}

// SignUp validates the payload locally, then creates the account.
func (s *AuthService) SignUp(ctx context.Context, req *types.SignUpRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, types.ValidationError("Email and password are required")
	}
	if len(req.Password) < 6 {
		return nil, types.ValidationError("Password must be at least 6 characters long")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, types.ValidationError("Please enter a valid email address")
	}
	if len(req.DisplayName) > 100 {
		return nil, types.ValidationError("Display name cannot exceed 100 characters")
	}

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:               req.Email,
		PasswordHash:        string(hash),
		DisplayName:         req.DisplayName,
		DietaryRestrictions: []string{},
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// A concurrent signup can slip past the pre-check and land on the
		// unique index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return &user, nil
}

// SignIn checks the credentials and opens a session. Any mismatch comes
// back as ErrInvalidCredentials without saying which part was wrong.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	if email == "" || password == "" {
		return nil, nil, types.ValidationError("Email and password are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	token, err := s.generateToken(&user, expiresAt)
	if err != nil {
		return nil, nil, err
	}

	session := models.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, nil, err
	}

	s.notify(EventSignedIn, &session)
	return &user, &session, nil
}

// SignOut revokes the session behind the token. An unknown token is not
// an error; the session is gone either way.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return err
	}
	s.notify(EventSignedOut, nil)
	return nil
}

// CurrentSession resolves a token to its live session, or ErrInvalidToken /
// ErrSessionExpired when it cannot.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*models.Session, *models.User, error) {
	if _, err := s.ValidateToken(token); err != nil {
		return nil, nil, ErrInvalidToken
	}

	var session models.Session
	if err := s.db.WithContext(ctx).Where("token = ?", token).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}
	if session.Expired() {
		return nil, nil, ErrSessionExpired
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, err
	}
	return &session, &user, nil
}

// CurrentUser resolves a token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	_, user, err := s.CurrentSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUserProfile updates profile fields held on the account record.
func (s *AuthService) UpdateUserProfile(ctx context.Context, userID uuid.UUID, displayName string) (*models.User, error) {
	if len(displayName) > 100 {
		return nil, types.ValidationError("Display name cannot exceed 100 characters")
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("display_name", displayName)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// OnAuthStateChange registers a listener for sign-in/sign-out events.
// Callbacks run on their own goroutine and may race with a concurrent
// SignOut; listeners must tolerate a session that is already gone.
func (s *AuthService) OnAuthStateChange(fn func(AuthEvent, *models.Session)) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.listeners[id] = fn
	return &Subscription{id: id, svc: s}
}

func (s *AuthService) notify(event AuthEvent, session *models.Session) {
	s.mu.Lock()
	fns := make([]func(AuthEvent, *models.Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		go fn(event, session)
	}
}

func (s *AuthService) generateToken(user *models.User, expiresAt time.Time) (string, error) {
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.New().String(),
		},
		UserID: user.ID,
		Email:  user.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*types.TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
