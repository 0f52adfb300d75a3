package db

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/example/sunlight/internal/models"
)

// NewsletterFile is the file name of the subscriber store inside the data directory.
const NewsletterFile = "newsletter-subscribers.json"

type fileNewsletterRepository struct {
	file *jsonFile[[]models.NewsletterSubscriber]
}

// NewFileNewsletterRepository opens (and if needed creates) the subscriber file in dataDir.
func NewFileNewsletterRepository(dataDir string) (NewsletterRepository, error) {
	f, err := newJSONFile(filepath.Join(dataDir, NewsletterFile), func() []models.NewsletterSubscriber {
		return []models.NewsletterSubscriber{}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open newsletter store: %w", err)
	}
	return &fileNewsletterRepository{file: f}, nil
}

func (r *fileNewsletterRepository) Create(ctx context.Context, subscriber *models.NewsletterSubscriber) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.file.update(func(subs []models.NewsletterSubscriber) ([]models.NewsletterSubscriber, bool, error) {
		for _, s := range subs {
			if s.IsActive && strings.EqualFold(s.Email, subscriber.Email) {
				return nil, false, fmt.Errorf("subscriber '%s': %w", subscriber.Email, ErrAlreadyExists)
			}
		}
		return append(subs, *subscriber), true, nil
	})
}

func (r *fileNewsletterRepository) UpdateByToken(ctx context.Context, token string, fn func(s *models.NewsletterSubscriber) error) (*models.NewsletterSubscriber, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated *models.NewsletterSubscriber
	err := r.file.update(func(subs []models.NewsletterSubscriber) ([]models.NewsletterSubscriber, bool, error) {
		for i := range subs {
			if subs[i].ConfirmationToken == nil || *subs[i].ConfirmationToken != token {
				continue
			}
			if err := fn(&subs[i]); err != nil {
				return nil, false, err
			}
			s := subs[i]
			updated = &s
			return subs, true, nil
		}
		return nil, false, fmt.Errorf("subscriber with confirmation token: %w", ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *fileNewsletterRepository) List(ctx context.Context) ([]models.NewsletterSubscriber, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []models.NewsletterSubscriber
	err := r.file.view(func(subs []models.NewsletterSubscriber) error {
		out = subs
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list newsletter subscribers: %w", err)
	}
	return out, nil
}
