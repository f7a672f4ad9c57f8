package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typermonkey/internal/account"
	"github.com/verte-zerg/typermonkey/internal/config"
	"github.com/verte-zerg/typermonkey/internal/dictionary"
	"github.com/verte-zerg/typermonkey/internal/generator"
	"github.com/verte-zerg/typermonkey/internal/github"
	"github.com/verte-zerg/typermonkey/internal/logger"
	"github.com/verte-zerg/typermonkey/internal/model"
	"github.com/verte-zerg/typermonkey/internal/page"
	"github.com/verte-zerg/typermonkey/internal/schedule"
	"github.com/verte-zerg/typermonkey/internal/session"
	"github.com/verte-zerg/typermonkey/internal/store"
	"github.com/verte-zerg/typermonkey/internal/stream"
	"github.com/verte-zerg/typermonkey/internal/tui"
)

const (
	defaultLang     = "en"
	defaultTieBreak = "recent"
	defaultCols     = page.DefaultCharsPerLine
	defaultLines    = page.DefaultLinesPerPage
	defaultRepo     = github.DefaultRepo
)

var defaultSpeedMs = int(session.DefaultOptions().TypingInterval / time.Millisecond)

var (
	monkeyLang     string
	monkeySpeedMs  int
	monkeyDuration int
	monkeyTieBreak string
	monkeySeed     int64
	monkeyCols     int
	monkeyLines    int
	monkeyWordlist string
	monkeyStars    bool
	monkeyRepo     string
)

func addMonkeyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&monkeyLang, "lang", defaultLang, "word list language")
	cmd.Flags().IntVar(&monkeySpeedMs, "speed", defaultSpeedMs, "milliseconds between keystrokes")
	cmd.Flags().IntVar(&monkeyDuration, "duration", 0, "countdown in minutes (0 = stopwatch)")
	cmd.Flags().StringVar(&monkeyTieBreak, "tiebreak", defaultTieBreak, "leading word among equal lengths: recent or first")
	cmd.Flags().Int64Var(&monkeySeed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().IntVar(&monkeyCols, "cols", defaultCols, "characters per line")
	cmd.Flags().IntVar(&monkeyLines, "lines", defaultLines, "lines per page")
	cmd.Flags().StringVar(&monkeyWordlist, "wordlist", "", "word list file (default: downloaded list for --lang)")
	cmd.Flags().BoolVar(&monkeyStars, "stars", false, "show the GitHub star badge")
	cmd.Flags().StringVar(&monkeyRepo, "repo", defaultRepo, "repository for the star badge")
}

func monkeyConfig(cmd *cobra.Command) (model.Config, error) {
	mc, uc := fileCfg.Monkey, fileCfg.UI
	applyConfig(cmd, "lang", &monkeyLang, mc.Lang)
	applyConfig(cmd, "speed", &monkeySpeedMs, mc.SpeedMs)
	applyConfig(cmd, "duration", &monkeyDuration, mc.Duration)
	applyConfig(cmd, "tiebreak", &monkeyTieBreak, mc.TieBreak)
	applyConfig(cmd, "seed", &monkeySeed, mc.Seed)
	applyConfig(cmd, "cols", &monkeyCols, mc.CharsPerLine)
	applyConfig(cmd, "lines", &monkeyLines, mc.LinesPerPage)
	applyConfig(cmd, "stars", &monkeyStars, uc.Stars)
	applyConfig(cmd, "repo", &monkeyRepo, uc.Repo)

	cfg := model.Config{
		Lang:           strings.ToLower(strings.TrimSpace(monkeyLang)),
		TypingInterval: time.Duration(monkeySpeedMs) * time.Millisecond,
		Duration:       time.Duration(monkeyDuration) * time.Minute,
		TieBreak:       monkeyTieBreak,
		Seed:           monkeySeed,
		CharsPerLine:   monkeyCols,
		LinesPerPage:   monkeyLines,
		Stars:          monkeyStars,
		Repo:           monkeyRepo,
	}
	return cfg, validateConfig(cfg)
}

func validateConfig(cfg model.Config) error {
	if cfg.Lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	if cfg.TypingInterval <= 0 {
		return fmt.Errorf("--speed must be > 0")
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("--duration must be >= 0")
	}
	if _, err := stream.ParseTieBreak(cfg.TieBreak); err != nil {
		return err
	}
	geo := page.Geometry{CharsPerLine: cfg.CharsPerLine, LinesPerPage: cfg.LinesPerPage}
	if err := geo.Validate(); err != nil {
		return fmt.Errorf("invalid paper size: %w", err)
	}
	return nil
}

// loadDictionary picks the word list: an explicit file, then the downloaded
// list for lang, then the built-in English list.
func loadDictionary(lang, path string) (*dictionary.Dictionary, string, error) {
	if path != "" {
		d, err := dictionary.Load(path)
		return d, path, err
	}
	path = config.DefaultWordListPath(lang)
	d, err := dictionary.Load(path)
	if err == nil {
		return d, path, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, path, err
	}
	if lang == defaultLang {
		d, err := dictionary.Default()
		return d, "built-in", err
	}
	return nil, path, wordListLoadError(lang, path, err)
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: typermonkey langs",
		fmt.Sprintf("Download: typermonkey wordlist --lang %s", lang),
	}
	return errors.New(strings.Join(lines, "\n"))
}

func runMonkeyCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := monkeyConfig(cmd)
	if err != nil {
		return err
	}
	dict, source, err := loadDictionary(cfg.Lang, monkeyWordlist)
	if err != nil {
		return err
	}

	tuiLog, closer, err := logger.File(config.DefaultLogPath(), "typermonkey", cliLog.GetLevel())
	if err != nil {
		return err
	}
	defer func() {
		_ = closer.Close()
	}()
	tuiLog.Info("starting", "lang", cfg.Lang, "dictionary", source, "words", dict.Len(), "tiebreak", cfg.TieBreak)

	opts := tui.Options{
		Config:     cfg,
		Dictionary: dict,
		Producer:   producerFor(cfg.Seed),
		Logger:     tuiLog,
	}
	st, err := openStore()
	if err != nil {
		tuiLog.Warn("session history disabled", "err", err)
	} else {
		defer closeStore(st)
		opts.Store = st
		opts.Nickname = signedInNickname(st, tuiLog)
	}
	if cfg.Stars {
		opts.Stars = github.NewClient()
	}

	loop := schedule.NewLoop()
	opts.Scheduler = loop
	opts.Dispatcher = loop
	m, err := tui.NewModel(opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	loop.Attach(func(f schedule.Fire) {
		program.Send(f)
	})
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func producerFor(seed int64) session.Producer {
	if seed != 0 {
		return generator.NewSeeded(seed)
	}
	return generator.New()
}

func signedInNickname(st *store.Store, l *log.Logger) string {
	ctx := context.Background()
	user, err := account.NewIdentity(st, config.DefaultSessionPath()).Current(ctx)
	if err != nil {
		if !errors.Is(err, account.ErrNotSignedIn) {
			l.Warn("failed to read signed-in user", "err", err)
		}
		return ""
	}
	profile, err := account.NewProfiles(st, config.DefaultAvatarDir()).Get(ctx, user.ID)
	if err != nil {
		l.Warn("failed to load profile", "err", err)
		return ""
	}
	if profile.Nickname != "" {
		return profile.Nickname
	}
	return user.Email
}
