package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/typermonkey/internal/model"
	"github.com/verte-zerg/typermonkey/internal/store"
)

// MaxNicknameLength caps nickname length in runes.
const MaxNicknameLength = 32

var (
	ErrInvalidNickname  = fmt.Errorf("nickname must be 1-%d characters", MaxNicknameLength)
	ErrUnsupportedImage = errors.New("avatar must be a png, jpg, gif or webp image")
)

var avatarExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

// Profiles reads and edits user profiles. Avatars are copied into a local
// directory and published as file:// URLs.
type Profiles struct {
	store     *store.Store
	avatarDir string
	now       func() time.Time
}

// NewProfiles returns a profile service storing avatars under avatarDir.
func NewProfiles(st *store.Store, avatarDir string) *Profiles {
	return &Profiles{store: st, avatarDir: avatarDir, now: time.Now}
}

// Get returns the profile of userID, creating an empty one on first use.
func (p *Profiles) Get(ctx context.Context, userID string) (model.Profile, error) {
	return p.store.GetOrCreateProfile(ctx, userID, "")
}

// UpdateNickname sets a trimmed, non-empty nickname.
func (p *Profiles) UpdateNickname(ctx context.Context, userID, nickname string) (model.Profile, error) {
	nickname = strings.TrimSpace(nickname)
	if n := utf8.RuneCountInString(nickname); n == 0 || n > MaxNicknameLength {
		return model.Profile{}, ErrInvalidNickname
	}
	if _, err := p.Get(ctx, userID); err != nil {
		return model.Profile{}, err
	}
	return p.store.UpdateNickname(ctx, userID, nickname)
}

// UpdateAvatar uploads the image at src and points the profile at it.
func (p *Profiles) UpdateAvatar(ctx context.Context, userID, src string) (model.Profile, error) {
	ext := strings.ToLower(filepath.Ext(src))
	if !avatarExts[ext] {
		return model.Profile{}, ErrUnsupportedImage
	}
	if _, err := p.Get(ctx, userID); err != nil {
		return model.Profile{}, err
	}
	name := fmt.Sprintf("%s-%d%s", userID, p.now().UnixMilli(), ext)
	dst := filepath.Join(p.avatarDir, name)
	if err := copyFile(src, dst); err != nil {
		return model.Profile{}, fmt.Errorf("upload avatar: %w", err)
	}
	return p.store.UpdateAvatarURL(ctx, userID, PublicURL(dst))
}

// PublicURL returns the file:// URL for a stored avatar.
func PublicURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
