package stats

import (
	"context"

	"github.com/verte-zerg/terview/internal/model"
	"github.com/verte-zerg/terview/internal/store"
)

// Report bundles the filtered history and its snapshot for rendering.
type Report struct {
	History   []model.SessionRecord
	Snapshot  *Snapshot
	Companies []string
}

// BuildReport loads the filtered history and computes its snapshot.
// It must be rebuilt whenever the filters change; the snapshot itself
// holds no state between calls.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	history, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(history) > cfg.Last {
		history = history[len(history)-cfg.Last:]
	}
	companies, err := st.Companies(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		History:   history,
		Snapshot:  Compute(history),
		Companies: companies,
	}, nil
}
