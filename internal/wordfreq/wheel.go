package wordfreq

import (
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/verte-zerg/typermonkey/internal/stream"
	"github.com/verte-zerg/typermonkey/internal/wordlist"
)

// MinWordLength is the shortest word kept by Words.
const MinWordLength = 2

const dataPrefix = "wordfreq/data/"

// Wheel is an opened wordfreq wheel.
type Wheel struct {
	zr *zip.ReadCloser
}

// Open opens the wheel at path.
func Open(path string) (*Wheel, error) {
	if path == "" {
		return nil, errors.New("wheel path is required")
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	return &Wheel{zr: zr}, nil
}

// Close releases the wheel.
func (w *Wheel) Close() error {
	return w.zr.Close()
}

// Languages maps language codes to the list sizes ("small", "large")
// available for them.
type Languages map[string][]string

// Codes returns the language codes in order.
func (l Languages) Codes() []string {
	out := make([]string, 0, len(l))
	for code := range l {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Languages lists the languages and sizes in the wheel.
func (w *Wheel) Languages() (Languages, error) {
	langs := Languages{}
	for _, f := range w.zr.File {
		lang, size, ok := parseDataName(f.Name)
		if !ok {
			continue
		}
		langs[lang] = append(langs[lang], size)
	}
	if len(langs) == 0 {
		return nil, errors.New("no languages found in wordfreq wheel")
	}
	for lang := range langs {
		sort.Strings(langs[lang])
	}
	return langs, nil
}

// Words returns up to limit words of lang, most frequent first, keeping only
// words the monkey can type: a-z and at most stream.MaxWordLength letters.
func (w *Wheel) Words(lang, size string, limit int) ([]string, error) {
	lang = strings.ToLower(lang)
	size = strings.ToLower(size)
	if lang == "" {
		return nil, errors.New("language is required")
	}
	if size == "" {
		return nil, errors.New("word list size is required")
	}
	if limit <= 0 {
		return nil, errors.New("limit must be greater than 0")
	}
	file := w.dataFile(lang, size)
	if file == nil {
		return nil, fmt.Errorf("no data file found for %s/%s", lang, size)
	}
	bins, err := readPack(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, err)
	}

	keep := wordlist.FilterForLang(lang)
	seen := make(map[string]struct{})
	var words []string
	for _, bin := range bins {
		for _, word := range bin {
			if len(word) < MinWordLength || len(word) > stream.MaxWordLength {
				continue
			}
			if !wordlist.IsLowerASCII(word) || !keep(word) {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			words = append(words, word)
			if len(words) == limit {
				return words, nil
			}
		}
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no words found for %s/%s", lang, size)
	}
	return words, nil
}

func (w *Wheel) dataFile(lang, size string) *zip.File {
	for _, f := range w.zr.File {
		l, s, ok := parseDataName(f.Name)
		if ok && l == lang && s == size {
			return f
		}
	}
	return nil
}

// parseDataName recognises wordfreq/data/{small,large}_<lang>.msgpack[.gz].
func parseDataName(name string) (lang, size string, ok bool) {
	name = strings.ToLower(name)
	base, found := strings.CutPrefix(name, dataPrefix)
	if !found || strings.Contains(base, "/") {
		return "", "", false
	}
	base = strings.TrimSuffix(base, ".gz")
	base, found = strings.CutSuffix(base, ".msgpack")
	if !found {
		return "", "", false
	}
	size, lang, found = strings.Cut(base, "_")
	if !found || lang == "" || (size != "small" && size != "large") {
		return "", "", false
	}
	return lang, size, true
}

type packHeader struct {
	Format  string `msgpack:"format"`
	Version int    `msgpack:"version"`
}

// readPack decodes a cBpack file: a header map followed by frequency bins,
// the i-th bin holding the words at -i centibels.
func readPack(f *zip.File) ([][]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()
	var r io.Reader = rc
	if strings.HasSuffix(f.Name, ".gz") {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()
		r = gz
	}
	return decodePack(r)
}

func decodePack(r io.Reader) ([][]string, error) {
	dec := msgpack.NewDecoder(r)
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, errors.New("empty cBpack")
	}
	var header packHeader
	if err := dec.Decode(&header); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if header.Format != "cB" {
		return nil, fmt.Errorf("unsupported format %q", header.Format)
	}
	bins := make([][]string, 0, n-1)
	for i := 1; i < n; i++ {
		var bin []string
		if err := dec.Decode(&bin); err != nil {
			return nil, fmt.Errorf("bin %d: %w", i-1, err)
		}
		bins = append(bins, bin)
	}
	return bins, nil
}

// License returns the wheel's license file.
func (w *Wheel) License() ([]byte, error) {
	for _, f := range w.zr.File {
		if !strings.Contains(strings.ToLower(f.Name), "license") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open license: %w", err)
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read license: %w", err)
		}
		return data, nil
	}
	return nil, errors.New("license file not found in wheel")
}

const attribution = `Word lists generated from the wordfreq dataset.
Source: https://github.com/rspeer/wordfreq
Data license: Creative Commons Attribution-ShareAlike 4.0 International (CC BY-SA 4.0).
https://creativecommons.org/licenses/by-sa/4.0/
Changes were made: filtered to lower-case a-z words of at most 15 letters.
`

// WriteAttribution writes ATTRIBUTION.txt and the wheel's LICENSE.txt into
// outDir.
func (w *Wheel) WriteAttribution(outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "ATTRIBUTION.txt"), []byte(attribution), 0o644); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	license, err := w.License()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "LICENSE.txt"), license, 0o644); err != nil {
		return fmt.Errorf("failed to write license: %w", err)
	}
	return nil
}
