// Package account provides a local identity provider and profile service
// backed by the SQLite store.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/verte-zerg/typermonkey/internal/model"
	"github.com/verte-zerg/typermonkey/internal/store"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// Identity signs users up and in. The signed-in user is remembered in a
// session file so it survives restarts.
type Identity struct {
	store       *store.Store
	sessionPath string
	cost        int
	now         func() time.Time
}

type sessionFile struct {
	UserID   string    `toml:"user-id"`
	SignedIn time.Time `toml:"signed-in"`
}

// NewIdentity returns an Identity persisting its session at sessionPath.
func NewIdentity(st *store.Store, sessionPath string) *Identity {
	return &Identity{store: st, sessionPath: sessionPath, cost: bcrypt.DefaultCost, now: time.Now}
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

// SignUp registers a new user and signs them in.
func (id *Identity) SignUp(ctx context.Context, email, password string) (model.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return model.User{}, err
	}
	if len(password) < MinPasswordLength {
		return model.User{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), id.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := model.User{ID: uuid.NewString(), Email: email, CreatedAt: id.now().UTC()}
	if err := id.store.CreateUser(ctx, user, hash); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	if err := id.remember(user.ID); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// SignIn checks the credentials and remembers the user.
func (id *Identity) SignIn(ctx context.Context, email, password string) (model.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	user, hash, err := id.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	if err := id.remember(user.ID); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// SignOut forgets the signed-in user. Signing out twice is not an error.
func (id *Identity) SignOut() error {
	if err := os.Remove(id.sessionPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Current returns the signed-in user or ErrNotSignedIn.
func (id *Identity) Current(ctx context.Context) (model.User, error) {
	var sess sessionFile
	if _, err := toml.DecodeFile(id.sessionPath, &sess); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.User{}, ErrNotSignedIn
		}
		return model.User{}, fmt.Errorf("read session: %w", err)
	}
	if sess.UserID == "" {
		return model.User{}, ErrNotSignedIn
	}
	user, err := id.store.UserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.User{}, ErrNotSignedIn
		}
		return model.User{}, err
	}
	return user, nil
}

func (id *Identity) remember(userID string) error {
	if err := os.MkdirAll(filepath.Dir(id.sessionPath), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	f, err := os.OpenFile(id.sessionPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(sessionFile{UserID: userID, SignedIn: id.now().UTC()}); err != nil {
		_ = f.Close()
		return fmt.Errorf("write session: %w", err)
	}
	return f.Close()
}
