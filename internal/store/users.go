package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/TheiTango/Mayobe-Bros/internal/models"
)

const usersFile = "auth/users.json"

// ErrInvalidCredentials covers both an unknown email and a wrong
// password, so login responses cannot be used to probe for accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticate checks the email and password against the stored user
// list. Stored passwords are bcrypt hashes.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	users, err := readArray[models.User](s, usersFile)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(users[i].Password), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return &users[i], nil
	}
	return nil, ErrInvalidCredentials
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	users, err := readArray[models.User](s, usersFile)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", id, ErrNotFound)
}

// EnsureAdminUser seeds the user list with a single admin account on
// first boot. An existing user file is left untouched.
func (s *Store) EnsureAdminUser(ctx context.Context, email, password string) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := readArray[models.User](s, usersFile)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.User{
		ID:        models.NewID("user"),
		Email:     email,
		Password:  string(hash),
		Role:      "admin",
		CreatedAt: models.Now(),
	}
	if err := s.writeJSON(usersFile, []models.User{admin}); err != nil {
		return err
	}
	log.Printf("seeded admin user %s; change the password after first login", email)
	return nil
}
