// Package auth is the local identity provider: email/password accounts
// backed by the users collection, plus cookie-session plumbing for the HTTP
// surface.
package auth

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/readease/readease/internal/config"
	"github.com/readease/readease/internal/entities"
	"github.com/readease/readease/internal/session"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrEmailInvalid       = errors.New("invalid email format")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUserExists         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles sign-up and sign-in against the users collection.
type Service struct {
	db     *gorm.DB
	config config.Auth
}

// NewService creates the identity provider and migrates the users collection.
func NewService(db *gorm.DB, cfg config.Auth) (*Service, error) {
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		return nil, fmt.Errorf("migrate users collection: %w", err)
	}
	return &Service{db: db, config: cfg}, nil
}

// SignUp creates a new account. The display name is derived from the email's
// local part; the avatar URL is optional and stored as given.
func (s *Service) SignUp(email, password, avatarURL string) (session.Identity, error) {
	if email == "" {
		return session.Identity{}, ErrEmailRequired
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return session.Identity{}, ErrEmailInvalid
	}
	if password == "" {
		return session.Identity{}, ErrPasswordRequired
	}

	var existing entities.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return session.Identity{}, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return session.Identity{}, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return session.Identity{}, err
	}

	user := &entities.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  session.DisplayNameFromEmail(email),
		AvatarURL:    avatarURL,
		PasswordHash: hash,
	}
	if err := s.db.Create(user).Error; err != nil {
		return session.Identity{}, fmt.Errorf("create user: %w", err)
	}

	return identityOf(user), nil
}

// SignIn verifies credentials and returns the identity. Unknown email and
// wrong password are deliberately indistinguishable.
func (s *Service) SignIn(email, password string) (session.Identity, error) {
	var user entities.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return session.Identity{}, fmt.Errorf("look up user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return session.Identity{}, ErrInvalidCredentials
	}

	return identityOf(&user), nil
}

// IdentityByID resolves a stored user id back into an identity, used when
// restoring a session.
func (s *Service) IdentityByID(id string) (session.Identity, error) {
	var user entities.User
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return session.Identity{}, fmt.Errorf("look up user %s: %w", id, err)
	}
	return identityOf(&user), nil
}

func identityOf(user *entities.User) session.Identity {
	return session.Identity{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
	}
}
