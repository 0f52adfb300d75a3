package db

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/example/sunlight/internal/models"
)

// UsersFile is the file name of the user store inside the data directory.
const UsersFile = "users.json"

// fileUserRepository implements UserRepository over a JSON array.
type fileUserRepository struct {
	file *jsonFile[[]models.User]
}

// NewFileUserRepository opens (and if needed creates) users.json in dataDir.
func NewFileUserRepository(dataDir string) (UserRepository, error) {
	f, err := newJSONFile(filepath.Join(dataDir, UsersFile), func() []models.User { return []models.User{} })
	if err != nil {
		return nil, fmt.Errorf("failed to open user store: %w", err)
	}
	return &fileUserRepository{file: f}, nil
}

func (r *fileUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return u.ID == userID }, "id '"+userID+"'")
}

// GetByEmail matches emails case-insensitively.
func (r *fileUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(ctx, func(u *models.User) bool { return strings.EqualFold(u.Email, email) }, "email '"+email+"'")
}

func (r *fileUserRepository) find(ctx context.Context, match func(*models.User) bool, desc string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found *models.User
	err := r.file.view(func(users []models.User) error {
		for i := range users {
			if match(&users[i]) {
				u := users[i]
				found = &u
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up user with %s: %w", desc, err)
	}
	if found == nil {
		return nil, fmt.Errorf("user with %s: %w", desc, ErrNotFound)
	}
	return found, nil
}

// Create appends the user unless the email is already registered.
func (r *fileUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if user.ID == "" {
		return fmt.Errorf("user ID cannot be empty for Create operation")
	}

	return r.file.update(func(users []models.User) ([]models.User, bool, error) {
		for _, u := range users {
			if strings.EqualFold(u.Email, user.Email) {
				return nil, false, fmt.Errorf("user with email '%s': %w", user.Email, ErrAlreadyExists)
			}
		}
		return append(users, *user), true, nil
	})
}

func (r *fileUserRepository) Update(ctx context.Context, email string, fn func(user *models.User) error) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated *models.User
	err := r.file.update(func(users []models.User) ([]models.User, bool, error) {
		for i := range users {
			if !strings.EqualFold(users[i].Email, email) {
				continue
			}
			if err := fn(&users[i]); err != nil {
				return nil, false, err
			}
			u := users[i]
			updated = &u
			return users, true, nil
		}
		return nil, false, fmt.Errorf("user with email '%s': %w", email, ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
