// Package firebase initializes the Firebase Admin SDK.
package firebase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/example/sunlight/internal/config"
)

// App wraps the Firebase app and lazily created clients.
type App struct {
	app    *firebase.App
	logger *zap.Logger
}

// InitFirebase creates the Firebase app from the configured credentials.
// Without explicit credentials Application Default Credentials are used.
func InitFirebase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID must be set")
	}

	opts, err := credentialOptions(cfg)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		logger.Info("Initializing Firebase using Application Default Credentials")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}
	logger.Info("Firebase app initialized", zap.String("projectID", cfg.FirebaseProjectID))
	return &App{app: app, logger: logger}, nil
}

// credentialOptions picks a credentials file over base64 encoded JSON.
func credentialOptions(cfg *config.Config) ([]option.ClientOption, error) {
	switch {
	case cfg.GoogleApplicationCredentials != "":
		return []option.ClientOption{option.WithCredentialsFile(cfg.GoogleApplicationCredentials)}, nil
	case cfg.FirebaseServiceAccountJSONBase64 != "":
		jsonKey, err := base64.StdEncoding.DecodeString(cfg.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not a valid base64 string")
		}
		return []option.ClientOption{option.WithCredentialsJSON(jsonKey)}, nil
	}
	return nil, nil
}

// Firestore returns a new Firestore client. The caller closes it.
func (a *App) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := a.app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}
	return client, nil
}

// Auth returns the Firebase Auth client.
func (a *App) Auth(ctx context.Context) (*auth.Client, error) {
	client, err := a.app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Auth: %w", err)
	}
	return client, nil
}
