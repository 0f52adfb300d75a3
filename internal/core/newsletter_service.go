package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/sunlight/internal/db"
	"github.com/example/sunlight/internal/models"
)

// recentSubscriptionsLimit caps NewsletterStats.RecentSubscriptions.
const recentSubscriptionsLimit = 10

type newsletterService struct {
	repo   db.NewsletterRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewNewsletterService creates a new NewsletterService instance.
func NewNewsletterService(repo db.NewsletterRepository, logger *zap.Logger) NewsletterService {
	return &newsletterService{repo: repo, logger: logger, now: time.Now}
}

func (s *newsletterService) Subscribe(ctx context.Context, email string, preferences map[string]bool) (*models.NewsletterSubscriber, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, invalidInput("Email is required")
	}
	if !ValidEmail(email) {
		return nil, invalidInput("Invalid email format")
	}

	prefs := models.DefaultNewsletterPreferences()
	for k, v := range preferences {
		prefs[k] = v
	}
	token := uuid.NewString()
	sub := &models.NewsletterSubscriber{
		ID:                uuid.NewString(),
		Email:             email,
		Preferences:       prefs,
		SubscribedAt:      s.now().UTC(),
		IsActive:          true,
		ConfirmationToken: &token,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, fmt.Errorf("email '%s' is already subscribed: %w", email, ErrConflict)
		}
		return nil, fmt.Errorf("failed to store subscriber '%s': %w", email, err)
	}

	s.logger.Info("Newsletter subscription", zap.String("email", email))
	return sub, nil
}

func (s *newsletterService) Confirm(ctx context.Context, token string) (*models.NewsletterSubscriber, error) {
	if token == "" {
		return nil, invalidInput("Confirmation token is required")
	}

	sub, err := s.repo.UpdateByToken(ctx, token, func(sub *models.NewsletterSubscriber) error {
		if sub.IsConfirmed {
			return ErrAlreadyConfirmed
		}
		now := s.now().UTC()
		sub.IsConfirmed = true
		sub.ConfirmedAt = &now
		return nil
	})
	switch {
	case errors.Is(err, db.ErrNotFound):
		return nil, fmt.Errorf("confirmation token: %w", ErrNotFound)
	case errors.Is(err, ErrAlreadyConfirmed):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("failed to confirm subscription: %w", err)
	}
	return sub, nil
}

func (s *newsletterService) Stats(ctx context.Context) (*models.NewsletterStats, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load newsletter stats: %w", err)
	}

	stats := &models.NewsletterStats{TotalSubscribers: len(subs)}
	for _, sub := range subs {
		if sub.IsActive {
			stats.ActiveSubscribers++
			if sub.IsConfirmed {
				stats.ConfirmedSubscribers++
			} else {
				stats.PendingConfirmation++
			}
		}
	}

	recent := append([]models.NewsletterSubscriber(nil), subs...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].SubscribedAt.After(recent[j].SubscribedAt)
	})
	if len(recent) > recentSubscriptionsLimit {
		recent = recent[:recentSubscriptionsLimit]
	}
	for i := range recent {
		recent[i].ConfirmationToken = nil
	}
	stats.RecentSubscriptions = recent
	return stats, nil
}
