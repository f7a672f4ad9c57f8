package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/typermonkey/internal/model"
	"github.com/verte-zerg/typermonkey/internal/store"
)

// Report is the data behind the history command.
type Report struct {
	Sessions []model.SessionAggregate
	TopWords []model.WordAggregate
}

// BuildReport loads sessions matching cfg and, when topWords is positive,
// the most discovered words.
func BuildReport(ctx context.Context, st *store.Store, cfg model.HistoryConfig, topWords int) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	words, err := st.TopWords(ctx, cfg, topWords)
	if err != nil {
		return Report{}, err
	}
	return Report{Sessions: sessions, TopWords: words}, nil
}

// Render writes the full report. width bounds the trend line; zero means
// unbounded.
func (r Report) Render(w io.Writer, window, width int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if err := RenderSessions(w, r.Sessions); err != nil {
		return err
	}
	if err := RenderTrend(w, r.Sessions, window, width-2); err != nil {
		return err
	}
	if r.TopWords == nil {
		return nil
	}
	return RenderTopWords(w, r.TopWords)
}
