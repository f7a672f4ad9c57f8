package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/verte-zerg/typermonkey/internal/model"
)

// ErrDuplicate is returned when inserting a user whose email is taken.
var ErrDuplicate = errors.New("store: duplicate")

// CreateUser inserts a user with its password hash.
func (s *Store) CreateUser(ctx context.Context, user model.User, hash []byte) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, user.Email).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return ErrDuplicate
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, hash, user.CreatedAt.Format(time.RFC3339Nano))
	return err
}

// UserByEmail returns the user registered under email and its password hash.
func (s *Store) UserByEmail(ctx context.Context, email string) (model.User, []byte, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// UserByID returns the user with id.
func (s *Store) UserByID(ctx context.Context, id string) (model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id)
	user, _, err := scanUser(row)
	return user, err
}

func scanUser(row *sql.Row) (model.User, []byte, error) {
	var user model.User
	var hash []byte
	var created string
	if err := row.Scan(&user.ID, &user.Email, &hash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, nil, ErrNotFound
		}
		return model.User{}, nil, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return model.User{}, nil, err
	}
	user.CreatedAt = parsed
	return user, hash, nil
}

// Profile returns the profile with id.
func (s *Store) Profile(ctx context.Context, id string) (model.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, nickname, avatar_url, created_at, updated_at FROM profiles WHERE id = ?`, id)
	var p model.Profile
	var created, updated string
	if err := row.Scan(&p.ID, &p.Nickname, &p.AvatarURL, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, err
	}
	var err error
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return model.Profile{}, err
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return model.Profile{}, err
	}
	return p, nil
}

// GetOrCreateProfile returns the profile with id, creating it with nickname
// when it does not exist yet.
func (s *Store) GetOrCreateProfile(ctx context.Context, id, nickname string) (model.Profile, error) {
	p, err := s.Profile(ctx, id)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.Profile{}, err
	}
	now := s.now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO profiles (id, nickname, avatar_url, created_at, updated_at) VALUES (?, ?, '', ?, ?)`,
		id, nickname, now, now)
	if err != nil {
		return model.Profile{}, err
	}
	return s.Profile(ctx, id)
}

// UpdateNickname sets the nickname of profile id.
func (s *Store) UpdateNickname(ctx context.Context, id, nickname string) (model.Profile, error) {
	return s.updateProfile(ctx, `UPDATE profiles SET nickname = ?, updated_at = ? WHERE id = ?`, id, nickname)
}

// UpdateAvatarURL sets the avatar URL of profile id.
func (s *Store) UpdateAvatarURL(ctx context.Context, id, url string) (model.Profile, error) {
	return s.updateProfile(ctx, `UPDATE profiles SET avatar_url = ?, updated_at = ? WHERE id = ?`, id, url)
}

func (s *Store) updateProfile(ctx context.Context, stmt, id, value string) (model.Profile, error) {
	res, err := s.db.ExecContext(ctx, stmt, value, s.now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return model.Profile{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Profile{}, err
	}
	if n == 0 {
		return model.Profile{}, ErrNotFound
	}
	return s.Profile(ctx, id)
}
