package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typermonkey/internal/model"
	"github.com/verte-zerg/typermonkey/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "typermonkey.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		rec := model.SessionRecord{
			StartedAt:   start,
			EndedAt:     start.Add(30 * time.Second),
			Lang:        "en",
			Chars:       200,
			ElapsedMs:   30000,
			LeadingWord: "key",
			Words:       []model.FoundWord{{Word: "key", Start: 3, End: 6}},
		}
		id, err := st.InsertSession(ctx, rec)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	report, err := BuildReport(ctx, st, model.HistoryConfig{Lang: "en", Last: 2}, 5)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.TopWords) != 1 || report.TopWords[0].Sessions != 2 {
		t.Fatalf("expected key found in the 2 selected sessions, got %+v", report.TopWords)
	}

	noWords, err := BuildReport(ctx, st, model.HistoryConfig{}, 0)
	if err != nil || noWords.TopWords != nil {
		t.Fatalf("expected no top words, got %+v (%v)", noWords.TopWords, err)
	}
}
