package usecases

import (
	"fmt"
	"time"
)

// RunReport is the structured outcome of one reconciliation run.
// Individual product failures are counted here and logged, never
// propagated: only a failed catalog fetch aborts a run.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time

	OriginTotal      int
	OriginVisible    int
	OriginHidden     int
	DestinationTotal int
	KeyCollisions    int

	Created   int
	Updated   int
	Unchanged int
	Hidden    int
	Skipped   int
	Excluded  int
	Failed    int
}

func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *RunReport) Summary() string {
	return fmt.Sprintf(
		"sync completed in %s: created=%d updated=%d unchanged=%d hidden=%d skipped=%d excluded=%d failed=%d collisions=%d",
		r.Duration().Round(time.Second),
		r.Created, r.Updated, r.Unchanged, r.Hidden, r.Skipped, r.Excluded, r.Failed, r.KeyCollisions,
	)
}
