package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/app/usecases"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS sync_runs (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
	started_at DATETIME NOT NULL,
	finished_at DATETIME NOT NULL,
	origin_total INT NOT NULL,
	origin_visible INT NOT NULL,
	destination_total INT NOT NULL,
	created_count INT NOT NULL,
	updated_count INT NOT NULL,
	unchanged_count INT NOT NULL,
	hidden_count INT NOT NULL,
	skipped_count INT NOT NULL,
	excluded_count INT NOT NULL,
	failed_count INT NOT NULL,
	key_collisions INT NOT NULL,
	PRIMARY KEY (id)
)`

// RunStore keeps one row per sync run so the last runs can be inspected
// without digging through job logs.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(db *sql.DB) (*RunStore, error) {
	if _, err := db.Exec(createRunsTable); err != nil {
		return nil, fmt.Errorf("mysql: create sync_runs: %w", err)
	}
	return &RunStore{db: db}, nil
}

func (s *RunStore) SaveRun(ctx context.Context, r *usecases.RunReport) error {
	const query = `INSERT INTO sync_runs
		(started_at, finished_at, origin_total, origin_visible, destination_total,
		 created_count, updated_count, unchanged_count, hidden_count,
		 skipped_count, excluded_count, failed_count, key_collisions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		r.StartedAt, r.FinishedAt, r.OriginTotal, r.OriginVisible, r.DestinationTotal,
		r.Created, r.Updated, r.Unchanged, r.Hidden,
		r.Skipped, r.Excluded, r.Failed, r.KeyCollisions,
	)
	if err != nil {
		return fmt.Errorf("mysql: insert sync run: %w", err)
	}
	return nil
}
