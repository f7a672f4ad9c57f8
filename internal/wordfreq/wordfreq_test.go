package wordfreq

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func encodePack(t *testing.T, bins ...[]string) []byte {
	t.Helper()
	pack := []any{map[string]any{"format": "cB", "version": 1}}
	for _, bin := range bins {
		pack = append(pack, bin)
	}
	data, err := msgpack.Marshal(pack)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func writeTestWheel(t *testing.T, files map[string][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wordfreq-3.1.1-py3-none-any.whl")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wheel: %v", err)
	}
	defer func() {
		_ = f.Close()
	}()
	zw := zip.NewWriter(f)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func openTestWheel(t *testing.T, files map[string][]byte) *Wheel {
	t.Helper()
	w, err := Open(writeTestWheel(t, files))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWordsOrderAndFilter(t *testing.T) {
	w := openTestWheel(t, map[string][]byte{
		"wordfreq/data/large_en.msgpack.gz": gzipBytes(t, encodePack(t,
			[]string{"the", "a", "go-1"},
			nil,
			[]string{"monkey", "Typer", "the", "internationalization"},
			[]string{"banana"},
		)),
	})
	words, err := w.Words("en", "large", 10)
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	want := []string{"the", "monkey", "banana"}
	if strings.Join(words, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, words)
	}

	limited, err := w.Words("en", "large", 2)
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	if len(limited) != 2 || limited[1] != "monkey" {
		t.Fatalf("expected limit of 2, got %v", limited)
	}
}

func TestWordsErrors(t *testing.T) {
	w := openTestWheel(t, map[string][]byte{
		"wordfreq/data/small_en.msgpack": encodePack(t, []string{"x"}),
		"wordfreq/data/small_fr.msgpack": []byte{0x92, 0x81, 0xa6, 'f', 'o', 'r', 'm', 'a', 't', 0xa2, 'z', 'z', 0x90},
	})
	if _, err := w.Words("en", "large", 10); err == nil {
		t.Fatalf("expected missing size error")
	}
	if _, err := w.Words("en", "small", 0); err == nil {
		t.Fatalf("expected limit error")
	}
	if _, err := w.Words("en", "small", 10); err == nil {
		t.Fatalf("expected no usable words error")
	}
	if _, err := w.Words("fr", "small", 10); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestLanguages(t *testing.T) {
	w := openTestWheel(t, map[string][]byte{
		"wordfreq/data/large_en.msgpack.gz":         []byte("x"),
		"wordfreq/data/small_en.msgpack.gz":         []byte("x"),
		"wordfreq/data/large_pt-br.msgpack.gz":      []byte("x"),
		"wordfreq/data/small_zh-cn.msgpack.gz":      []byte("x"),
		"wordfreq/data/_chinese_mapping.msgpack.gz": []byte("x"),
		"wordfreq/data/jieba_zh.txt":                []byte("x"),
	})
	langs, err := w.Languages()
	if err != nil {
		t.Fatalf("languages: %v", err)
	}
	if got := strings.Join(langs.Codes(), ","); got != "en,pt-br,zh-cn" {
		t.Fatalf("unexpected codes %s", got)
	}
	if got := strings.Join(langs["en"], ","); got != "large,small" {
		t.Fatalf("unexpected sizes %s", got)
	}
}

func TestWriteAttribution(t *testing.T) {
	w := openTestWheel(t, map[string][]byte{
		"wordfreq-3.1.1.dist-info/LICENSE.txt": []byte("Apache License"),
	})
	out := t.TempDir()
	if err := w.WriteAttribution(out); err != nil {
		t.Fatalf("attribution: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "ATTRIBUTION.txt")); err != nil {
		t.Fatalf("expected ATTRIBUTION.txt: %v", err)
	}
	license, err := os.ReadFile(filepath.Join(out, "LICENSE.txt"))
	if err != nil || string(license) != "Apache License" {
		t.Fatalf("unexpected license %q (%v)", license, err)
	}
}

func TestFetcherLatest(t *testing.T) {
	var wheelHits int
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()
	mux.HandleFunc("/pypi/wordfreq/json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"info": {"version": "3.1.1"}, "urls": [
			{"url": "` + srv.URL + `/sdist", "filename": "wordfreq-3.1.1.tar.gz", "packagetype": "sdist"},
			{"url": "` + srv.URL + `/wheel", "filename": "wordfreq-3.1.1-py3-none-any.whl", "packagetype": "bdist_wheel"}
		]}`))
	})
	mux.HandleFunc("/wheel", func(w http.ResponseWriter, r *http.Request) {
		wheelHits++
		_, _ = w.Write([]byte("wheel-bytes"))
	})

	f := &Fetcher{Endpoint: srv.URL + "/pypi/wordfreq/json", HTTP: srv.Client()}
	cache := t.TempDir()
	dl, err := f.Latest(context.Background(), cache)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if dl.Version != "3.1.1" || dl.Cached || dl.Filename != "wordfreq-3.1.1-py3-none-any.whl" {
		t.Fatalf("unexpected download %+v", dl)
	}
	data, err := os.ReadFile(dl.Path)
	if err != nil || string(data) != "wheel-bytes" {
		t.Fatalf("unexpected wheel contents %q (%v)", data, err)
	}
	again, err := f.Latest(context.Background(), cache)
	if err != nil || !again.Cached {
		t.Fatalf("expected cached wheel, got %+v (%v)", again, err)
	}
	if wheelHits != 1 {
		t.Fatalf("expected one wheel download, got %d", wheelHits)
	}
}
