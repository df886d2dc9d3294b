package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/store"

	"github.com/golang-jwt/jwt/v4" // Import JWT library
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt" // Import bcrypt
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidToken         = errors.New("invalid token")
)

const tokenIssuer = "group-fitness"

// maxPasswordBytes is the longest password bcrypt accepts.
const maxPasswordBytes = 72

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (token string, user *domain.User, err error)
	// Login authenticates a known user, or creates the account on first
	// login with a name derived from the email address.
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	ParseToken(token string) (userID string, err error)
}

// authService implements the AuthService interface.
type authService struct {
	store         *store.Store
	deps          Deps
	jwtSecret     string
	jwtExpiration time.Duration
	hashCost      int
}

// NewAuthService creates a new instance of authService.
func NewAuthService(s *store.Store, deps Deps, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &authService{
		store:         s,
		deps:          deps.withDefaults(),
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		hashCost:      bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" || !strings.Contains(email, "@") {
		return invalid("email", "must be an email address")
	}
	if password == "" {
		return invalid("password", "cannot be empty")
	}
	if len(password) > maxPasswordBytes {
		return invalid("password", "must be at most 72 bytes")
	}
	return nil
}

// Register handles new user registration.
func (s *authService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, invalid("name", "cannot be empty")
	}
	if err := validateCredentials(email, password); err != nil {
		return "", nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", nil, ErrHashingFailed
	}

	var user domain.User
	err = s.store.Update(ctx, func(tx *store.Tx) error {
		if _, exists := tx.UserByEmail(email); exists {
			return ErrUserAlreadyExists
		}
		user = s.newUser(email, name, string(hashedPassword))
		tx.AddUser(user)
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	log.Infof("registered user %s", user.ID)

	token, err := s.generateJWT(&user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	user.PasswordHash = ""
	return token, &user, nil
}

// Login handles user authentication and JWT generation.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return "", nil, err
	}

	user, found := s.findByEmail(email)
	if found {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return "", nil, ErrAuthenticationFailed
		}
	} else {
		// bcrypt must not run under the store lock.
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
		if err != nil {
			return "", nil, ErrHashingFailed
		}
		err = s.store.Update(ctx, func(tx *store.Tx) error {
			if existing, ok := tx.UserByEmail(email); ok {
				// Created concurrently by another login.
				if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(password)) != nil {
					return ErrAuthenticationFailed
				}
				user = existing
				return nil
			}
			user = s.newUser(email, strings.SplitN(email, "@", 2)[0], string(hashedPassword))
			tx.AddUser(user)
			log.Infof("created user %s on first login", user.ID)
			return nil
		})
		if err != nil {
			return "", nil, err
		}
	}

	token, err := s.generateJWT(&user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}
	user.PasswordHash = ""
	return token, &user, nil
}

func (s *authService) newUser(email, name, passwordHash string) domain.User {
	return domain.User{
		ID:           s.deps.NewID(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    s.deps.Now(),
	}
}

func (s *authService) findByEmail(email string) (domain.User, bool) {
	var (
		user  domain.User
		found bool
	)
	s.store.View(func(v *store.View) {
		for _, u := range v.Users() {
			if u.Email == email {
				user, found = u, true
				return
			}
		}
	})
	return user, found
}

// GetUser returns a user without the password hash.
func (s *authService) GetUser(_ context.Context, userID string) (*domain.User, error) {
	for _, u := range s.store.Users() {
		if u.ID == userID {
			u.PasswordHash = ""
			return &u, nil
		}
	}
	return nil, userNotFound(userID)
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	now := s.deps.Now()
	claims := &jwtClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ParseToken validates a signed token and returns the user ID it carries.
func (s *authService) ParseToken(tokenString string) (string, error) {
	return ParseToken(tokenString, s.jwtSecret)
}

// ParseToken validates an HS256 token signed with secret.
func ParseToken(tokenString, secret string) (string, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
