package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typermonkey/internal/config"
	"github.com/verte-zerg/typermonkey/internal/model"
)

func TestResolveWordlistLangs(t *testing.T) {
	available := []string{"de", "en", "fr"}

	got, all, err := resolveWordlistLangs("", available)
	if err != nil || all || !reflect.DeepEqual(got, []string{"en"}) {
		t.Fatalf("default: got %v %v %v", got, all, err)
	}
	got, all, err = resolveWordlistLangs("ALL", available)
	if err != nil || !all || !reflect.DeepEqual(got, available) {
		t.Fatalf("all: got %v %v %v", got, all, err)
	}
	got, _, err = resolveWordlistLangs(" fr, de ,fr", available)
	if err != nil || !reflect.DeepEqual(got, []string{"fr", "de"}) {
		t.Fatalf("list: got %v %v", got, err)
	}
	if _, _, err := resolveWordlistLangs("xx", available); err == nil {
		t.Fatalf("expected error for unknown language")
	}
	if _, _, err := resolveWordlistLangs(" , ", available); err == nil {
		t.Fatalf("expected error for empty list")
	}
}

func TestPickListSize(t *testing.T) {
	if got, ok := pickListSize([]string{"large", "small"}, "large"); !ok || got != "large" {
		t.Fatalf("expected large, got %q", got)
	}
	if got, ok := pickListSize([]string{"small"}, "large"); !ok || got != "small" {
		t.Fatalf("expected fallback to small, got %q", got)
	}
	if _, ok := pickListSize([]string{"large"}, "small"); ok {
		t.Fatalf("small must not fall back to large")
	}
}

func TestWriteWordListAndLangs(t *testing.T) {
	dir := t.TempDir()
	if err := writeWordList(filepath.Join(dir, "en.txt"), []string{"cat", "dog"}); err != nil {
		t.Fatalf("writeWordList failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "en.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "cat\ndog\n" {
		t.Fatalf("unexpected contents %q", data)
	}
	for _, name := range []string{"LICENSE.txt", "ATTRIBUTION.txt", "de.txt", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	langs, err := downloadedLangs(dir)
	if err != nil {
		t.Fatalf("downloadedLangs failed: %v", err)
	}
	if !reflect.DeepEqual(langs, []string{"de", "en"}) {
		t.Fatalf("unexpected langs %v", langs)
	}
	langs, err = downloadedLangs(filepath.Join(dir, "missing"))
	if err != nil || len(langs) != 0 {
		t.Fatalf("missing dir: got %v %v", langs, err)
	}
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := config.LoadConfig(path); err != nil {
		t.Fatalf("template does not load: %v", err)
	}

	// Uncommenting every line must still decode.
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("uncommented template does not load: %v", err)
	}
	if cfg.Monkey.SpeedMs == nil || *cfg.Monkey.SpeedMs != defaultSpeedMs {
		t.Fatalf("expected speed %d, got %v", defaultSpeedMs, cfg.Monkey.SpeedMs)
	}
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := &cobra.Command{}
	var lang string
	var speed int
	cmd.Flags().StringVar(&lang, "lang", "en", "")
	cmd.Flags().IntVar(&speed, "speed", 150, "")
	if err := cmd.Flags().Parse([]string{"--lang", "de"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	fromFile, fastest := "fr", 50
	applyConfig(cmd, "lang", &lang, &fromFile)
	applyConfig(cmd, "speed", &speed, &fastest)
	if lang != "de" {
		t.Fatalf("flag should win, got %q", lang)
	}
	if speed != 50 {
		t.Fatalf("config should apply, got %d", speed)
	}
	applyConfig[int](cmd, "speed", &speed, nil)
	if speed != 50 {
		t.Fatalf("nil config must not change the value")
	}
}

func TestValidateConfig(t *testing.T) {
	base := model.Config{
		Lang:           "en",
		TypingInterval: 150 * time.Millisecond,
		TieBreak:       "recent",
		CharsPerLine:   48,
		LinesPerPage:   25,
	}
	if err := validateConfig(base); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	cases := map[string]func(*model.Config){
		"speed":    func(c *model.Config) { c.TypingInterval = 0 },
		"duration": func(c *model.Config) { c.Duration = -time.Minute },
		"tiebreak": func(c *model.Config) { c.TieBreak = "longest" },
		"cols":     func(c *model.Config) { c.CharsPerLine = 0 },
		"lang":     func(c *model.Config) { c.Lang = "" },
	}
	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadDictionaryFallsBack(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	dict, source, err := loadDictionary("en", "")
	if err != nil {
		t.Fatalf("built-in fallback failed: %v", err)
	}
	if source != "built-in" || dict.Len() == 0 {
		t.Fatalf("expected built-in dictionary, got %s with %d words", source, dict.Len())
	}

	if _, _, err := loadDictionary("de", ""); err == nil || !strings.Contains(err.Error(), "typermonkey wordlist --lang de") {
		t.Fatalf("expected download hint, got %v", err)
	}

	if err := writeWordList(config.DefaultWordListPath("de"), []string{"katze", "hund"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	dict, _, err = loadDictionary("de", "")
	if err != nil {
		t.Fatalf("load de: %v", err)
	}
	if !dict.Contains("katze") || dict.Contains("cat") {
		t.Fatalf("expected the downloaded German list")
	}
}
