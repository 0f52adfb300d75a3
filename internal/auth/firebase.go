package auth

import (
	"context"
	"errors"
	"fmt"

	fbauth "firebase.google.com/go/v4/auth"
)

// FirebaseVerifier accepts Firebase ID tokens. The Firebase UID becomes the user id.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier wraps an initialized Firebase Auth client.
func NewFirebaseVerifier(client *fbauth.Client) (*FirebaseVerifier, error) {
	if client == nil {
		return nil, errors.New("firebase auth client is not initialized")
	}
	return &FirebaseVerifier{client: client}, nil
}

// Verify implements Verifier.
func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (*Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	email, _ := token.Claims["email"].(string)
	return &Identity{UserID: token.UID, Email: email}, nil
}
