package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typermonkey/internal/config"
	"github.com/verte-zerg/typermonkey/internal/wordfreq"
)

const defaultWordlistSize = 50000

var (
	wordlistLang  string
	wordlistSize  int
	wordlistList  string
	wordlistForce bool
)

var wordlistMetaFiles = map[string]bool{
	"ATTRIBUTION.txt": true,
	"LICENSE.txt":     true,
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List downloaded word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := downloadedLangs(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	if len(langs) == 0 {
		cliLog.Info("no word lists downloaded, the built-in English list is used", "hint", "typermonkey wordlist --lang <code>")
		return nil
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func downloadedLangs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read word list directory: %w", err)
	}
	var langs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") || wordlistMetaFiles[name] {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	sort.Strings(langs)
	return langs, nil
}

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Download word lists from wordfreq",
		Args:  cobra.NoArgs,
		RunE:  runWordlistCmd,
	}
	cmd.Flags().StringVar(&wordlistLang, "lang", "", "language code, comma separated codes, or 'all' (default: en)")
	cmd.Flags().IntVar(&wordlistSize, "size", defaultWordlistSize, "number of words")
	cmd.Flags().StringVar(&wordlistList, "list", "large", "wordfreq list: large or small")
	cmd.Flags().BoolVar(&wordlistForce, "force", false, "overwrite existing files")
	return cmd
}

func runWordlistCmd(cmd *cobra.Command, _ []string) error {
	if wordlistSize <= 0 {
		return fmt.Errorf("--size must be greater than 0")
	}
	list := strings.ToLower(strings.TrimSpace(wordlistList))
	if list != "large" && list != "small" {
		return fmt.Errorf("--list must be large or small")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cliLog.Info("fetching wordfreq metadata")
	dl, err := wordfreq.NewFetcher().Latest(ctx, config.DefaultWordfreqCacheDir())
	if err != nil {
		return fmt.Errorf("failed to download wordfreq wheel: %w", err)
	}
	cliLog.Info("wheel ready", "file", dl.Filename, "version", dl.Version, "cached", dl.Cached)

	wheel, err := wordfreq.Open(dl.Path)
	if err != nil {
		return err
	}
	defer func() {
		_ = wheel.Close()
	}()
	available, err := wheel.Languages()
	if err != nil {
		return err
	}
	langs, all, err := resolveWordlistLangs(wordlistLang, available.Codes())
	if err != nil {
		return err
	}

	outDir := config.DefaultWordListDir()
	for _, lang := range langs {
		outPath := filepath.Join(outDir, lang+".txt")
		if !wordlistForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to stat word list: %w", err)
			}
		}
		size, ok := pickListSize(available[lang], list)
		if !ok {
			if all {
				cliLog.Warn("skipping language", "lang", lang, "reason", "no "+list+" list")
				continue
			}
			return fmt.Errorf("no %s word list available for %s", list, lang)
		}
		if size != list {
			cliLog.Info("falling back to another list", "lang", lang, "list", size)
		}
		words, err := wheel.Words(lang, size, wordlistSize)
		if err != nil {
			if all {
				cliLog.Warn("skipping language", "lang", lang, "err", err)
				continue
			}
			return fmt.Errorf("failed to extract %s word list: %w", lang, err)
		}
		if err := writeWordList(outPath, words); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		cliLog.Info("wrote word list", "path", outPath, "words", len(words))
	}

	if err := wheel.WriteAttribution(outDir); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	cliLog.Info("wrote ATTRIBUTION.txt and LICENSE.txt", "dir", outDir)
	return nil
}

// resolveWordlistLangs expands the --lang value against the wheel's languages.
// The bool reports whether every language was requested.
func resolveWordlistLangs(lang string, available []string) ([]string, bool, error) {
	lang = strings.TrimSpace(strings.ToLower(lang))
	switch lang {
	case "":
		return []string{defaultLang}, false, nil
	case "all":
		return slices.Clone(available), true, nil
	}
	var requested []string
	for _, part := range strings.Split(lang, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !slices.Contains(available, part) {
			return nil, false, fmt.Errorf("unknown language %q (available: %s)", part, strings.Join(available, ", "))
		}
		if !slices.Contains(requested, part) {
			requested = append(requested, part)
		}
	}
	if len(requested) == 0 {
		return nil, false, fmt.Errorf("--lang must not be empty")
	}
	return requested, false, nil
}

// pickListSize prefers want and falls back from large to small.
func pickListSize(available []string, want string) (string, bool) {
	if slices.Contains(available, want) {
		return want, true
	}
	if want == "large" && slices.Contains(available, "small") {
		return "small", true
	}
	return "", false
}

// writeWordList replaces path atomically with one word per line.
func writeWordList(path string, words []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "wordlist-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	w := bufio.NewWriter(tmp)
	for _, word := range words {
		if _, err := w.WriteString(word + "\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
