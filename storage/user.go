package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"

	"xmail/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStorage persists auth backend users in bbolt
type UserStorage struct {
	db   *bbolt.DB
	cost int
	now  func() time.Time
}

// NewUserStorage creates a user store on an initialised database
func NewUserStorage(db *bbolt.DB) *UserStorage {
	return &UserStorage{db: db, cost: bcrypt.DefaultCost, now: time.Now}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser hashes the password and stores a new user. Emails are unique
// regardless of case.
func (s *UserStorage) CreateUser(user *models.User, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.TrimSpace(user.Email)
	user.PasswordHash = string(hashedPassword)
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Theme == "" {
		user.Theme = "techy"
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		emails := tx.Bucket([]byte(userEmailsBucket))
		key := []byte(normalizeEmail(user.Email))
		if emails.Get(key) != nil {
			return fmt.Errorf("%w: %s", ErrUserExists, user.Email)
		}
		if err := emails.Put(key, []byte(user.ID)); err != nil {
			return err
		}
		return putUser(tx, user)
	})
}

// GetUser retrieves a user by ID
func (s *UserStorage) GetUser(userID string) (*models.User, error) {
	var user *models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		user, err = getUser(tx, userID)
		return err
	})
	return user, err
}

// GetUserByEmail retrieves a user through the email index
func (s *UserStorage) GetUserByEmail(email string) (*models.User, error) {
	var user *models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket([]byte(userEmailsBucket)).Get([]byte(normalizeEmail(email)))
		if id == nil {
			return fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		var err error
		user, err = getUser(tx, string(id))
		return err
	})
	return user, err
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords both return ErrInvalidCredentials.
func (s *UserStorage) Authenticate(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// UpdateLastLogin updates the last login timestamp
func (s *UserStorage) UpdateLastLogin(userID string) error {
	return s.update(userID, func(u *models.User) {
		u.LastLoginAt = s.now()
	})
}

// UpdateTheme records the preferred theme of a user
func (s *UserStorage) UpdateTheme(userID, theme string) error {
	return s.update(userID, func(u *models.User) {
		u.Theme = theme
	})
}

// ListUsers retrieves all users in id order
func (s *UserStorage) ListUsers() ([]*models.User, error) {
	var users []*models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(usersBucket)).ForEach(func(k, v []byte) error {
			var u models.User
			if err := json.Unmarshal(v, &u); err != nil {
				return fmt.Errorf("failed to unmarshal user %s: %w", k, err)
			}
			users = append(users, &u)
			return nil
		})
	})
	return users, err
}

func (s *UserStorage) update(userID string, mutate func(*models.User)) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		user, err := getUser(tx, userID)
		if err != nil {
			return err
		}
		mutate(user)
		user.UpdatedAt = s.now()
		return putUser(tx, user)
	})
}

func getUser(tx *bbolt.Tx, userID string) (*models.User, error) {
	data := tx.Bucket([]byte(usersBucket)).Get([]byte(userID))
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

func putUser(tx *bbolt.Tx, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	return tx.Bucket([]byte(usersBucket)).Put([]byte(user.ID), data)
}
