package user

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campus-compass/calendar-manager/internal/errdef"

	"github.com/campus-compass/calendar-manager/pkg/model"
	"golang.org/x/crypto/argon2"
)

// GuestEmailDomain is the domain of the generated email addresses of guest users.
const GuestEmailDomain = "guest.invalid"

func NewService(repository *repository) *Service {
	return &Service{
		repository: repository,
	}
}

type Service struct {
	repository *repository
}

func (s Service) SignUp(ctx context.Context, email string, password string) (*model.User, error) {
	if strings.HasSuffix(strings.ToLower(email), "@"+GuestEmailDomain) {
		return nil, errdef.NewBadRequest("email addresses of domain %q are reserved", GuestEmailDomain)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %s", err)
	}

	user := &model.User{
		Email:    email,
		Password: hashedPassword,
	}

	err = s.repository.create(ctx, user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// CreateGuest creates a read only user with a generated email and a password nobody knows. Guests
// sign in through their tokens only.
func (s Service) CreateGuest(ctx context.Context) (*model.User, error) {
	password := make([]byte, 32)
	if _, err := rand.Read(password); err != nil {
		return nil, err
	}

	hashedPassword, err := hashPassword(hex.EncodeToString(password))
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %s", err)
	}

	user := &model.User{
		Email:    fmt.Sprintf("guest-%s@%s", uuid.NewString(), GuestEmailDomain),
		Password: hashedPassword,
		Guest:    true,
	}

	err = s.repository.create(ctx, user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

const (
	argon2Memory      = 128 * 1024
	argon2Iterations  = 3
	argon2Parallelism = 4
	argon2SaltLength  = 16
	argon2KeyLength   = 32
)

// hashPassword hashes the password using argon2id and encodes it in the PHC string format.
func hashPassword(password string) (string, error) {
	salt := make([]byte, argon2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Iterations, argon2Memory, argon2Parallelism, argon2KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Iterations, argon2Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func (s Service) SignIn(ctx context.Context, email string, password string) (*model.User, error) {
	const unauthorizedError = "invalid email and password combination"

	user, err := s.repository.findByEmail(ctx, email)
	if err != nil {
		if errdef.IsNotFound(err) {
			return nil, errdef.NewUnauthorized(unauthorizedError)
		}
		return nil, err
	}

	if user.Guest {
		return nil, errdef.NewUnauthorized(unauthorizedError)
	}

	match, err := comparePasswords(user.Password, password)
	if err != nil {
		return nil, fmt.Errorf("password hashing failed: %s", err)
	}

	if !match {
		return nil, errdef.NewUnauthorized(unauthorizedError)
	}

	return user, nil
}

func comparePasswords(storedPassword string, suppliedPassword string) (bool, error) {
	parts := strings.Split(storedPassword, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errors.New("invalid password hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("invalid password hash version: %v", err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("incompatible argon2 version %d", version)
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("invalid password parameters: %v", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %v", err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %v", err)
	}

	supplied := argon2.IDKey([]byte(suppliedPassword), salt, iterations, memory, parallelism, uint32(len(hash)))

	return subtle.ConstantTimeCompare(hash, supplied) == 1, nil
}

func (s Service) FindById(ctx context.Context, id uint) (*model.User, error) {
	return s.repository.findById(ctx, id)
}

// Delete removes the user and, through the foreign key cascade, all of its events and tasks.
func (s Service) Delete(ctx context.Context, id uint) error {
	return s.repository.delete(ctx, id)
}
