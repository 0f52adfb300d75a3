package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/sunlight/internal/db"
	"github.com/example/sunlight/internal/models"
)

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, email string) (string, error) {
	return fmt.Sprintf("token-%s-%s", userID, email), nil
}

func newTestUserService(c *qt.C) (UserService, db.UserRepository, *testClock) {
	repo, err := db.NewFileUserRepository(c.TempDir())
	c.Assert(err, qt.IsNil)
	clock := &testClock{t: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)}
	svc := NewUserService(repo, fakeIssuer{}, zap.NewNop(), WithBcryptCost(bcrypt.MinCost), WithUserClock(clock.Now))
	return svc, repo, clock
}

var signUpAda = models.SignUpRequest{FirstName: "Ada", LastName: "Lovelace", Email: " Ada@Example.com ", Password: "engine42"}

func TestSignUpAndSignIn(t *testing.T) {
	c := qt.New(t)
	svc, repo, _ := newTestUserService(c)
	ctx := context.Background()

	user, token, err := svc.SignUp(ctx, signUpAda)
	c.Assert(err, qt.IsNil)
	c.Assert(user.Email, qt.Equals, "ada@example.com")
	c.Assert(token, qt.Equals, "token-"+user.ID+"-ada@example.com")
	c.Assert(user.PasswordHash, qt.Not(qt.Equals), "engine42")
	c.Assert(*user.EmailVerificationToken, qt.Matches, `[A-Z0-9]{6}`)

	stored, err := repo.GetByID(ctx, user.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stored.EmailVerified, qt.IsFalse)

	signed, token, err := svc.SignIn(ctx, "ADA@example.com", "engine42")
	c.Assert(err, qt.IsNil)
	c.Assert(signed.ID, qt.Equals, user.ID)
	c.Assert(token, qt.Not(qt.Equals), "")
}

func TestSignUpRejectsDuplicateAndBadEmail(t *testing.T) {
	c := qt.New(t)
	svc, _, _ := newTestUserService(c)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, signUpAda)
	c.Assert(err, qt.IsNil)

	_, _, err = svc.SignUp(ctx, signUpAda)
	c.Assert(errors.Is(err, ErrConflict), qt.IsTrue)

	bad := signUpAda
	bad.Email = "not-an-email"
	_, _, err = svc.SignUp(ctx, bad)
	var ie *InputError
	c.Assert(errors.As(err, &ie), qt.IsTrue)
	c.Assert(ie.Message, qt.Equals, "Please enter a valid email address")
}

func TestSignInWrongPassword(t *testing.T) {
	c := qt.New(t)
	svc, _, _ := newTestUserService(c)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, signUpAda)
	c.Assert(err, qt.IsNil)

	_, _, err = svc.SignIn(ctx, "ada@example.com", "wrong")
	c.Assert(errors.Is(err, ErrInvalidCredentials), qt.IsTrue)
	_, _, err = svc.SignIn(ctx, "ghost@example.com", "engine42")
	c.Assert(errors.Is(err, ErrInvalidCredentials), qt.IsTrue)
}

func TestEmailVerificationFlow(t *testing.T) {
	c := qt.New(t)
	svc, repo, _ := newTestUserService(c)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, signUpAda)
	c.Assert(err, qt.IsNil)

	token, err := svc.SendVerification(ctx, "ada@example.com")
	c.Assert(err, qt.IsNil)

	c.Assert(errors.Is(svc.VerifyEmail(ctx, "ada@example.com", "XXXXXX"), ErrInvalidVerificationToken), qt.IsTrue)
	c.Assert(svc.VerifyEmail(ctx, "ada@example.com", token), qt.IsNil)

	user, err := repo.GetByEmail(ctx, "ada@example.com")
	c.Assert(err, qt.IsNil)
	c.Assert(user.EmailVerified, qt.IsTrue)
	c.Assert(user.EmailVerificationToken, qt.IsNil)

	_, err = svc.SendVerification(ctx, "ada@example.com")
	c.Assert(errors.Is(err, ErrEmailAlreadyVerified), qt.IsTrue)
	_, err = svc.SendVerification(ctx, "ghost@example.com")
	c.Assert(errors.Is(err, ErrUserNotFound), qt.IsTrue)
}

func TestVerificationTokenExpires(t *testing.T) {
	c := qt.New(t)
	svc, _, clock := newTestUserService(c)
	ctx := context.Background()

	user, _, err := svc.SignUp(ctx, signUpAda)
	c.Assert(err, qt.IsNil)

	clock.Advance(VerificationTokenTTL + time.Minute)
	err = svc.VerifyEmail(ctx, "ada@example.com", *user.EmailVerificationToken)
	c.Assert(errors.Is(err, ErrVerificationExpired), qt.IsTrue)
}
