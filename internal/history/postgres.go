package history

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres persists run history across processes.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	p := &Postgres{db: db}
	if err := p.migrate(context.Background()); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS optimizer_runs (
		run_id       text PRIMARY KEY,
		algorithm    text NOT NULL,
		mode         text NOT NULL,
		stop_count   int NOT NULL,
		score        double precision NOT NULL,
		duration_ms  bigint NOT NULL,
		fallback     boolean NOT NULL DEFAULT false,
		completed_at timestamptz NOT NULL
	)`)
	return err
}

func (p *Postgres) RecordRun(ctx context.Context, rec Record) error {
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now().UTC()
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO optimizer_runs (run_id, algorithm, mode, stop_count, score, duration_ms, fallback, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (run_id) DO NOTHING`,
		rec.RunID, rec.Algorithm, rec.Mode, rec.StopCount, rec.Score, rec.DurationMs, rec.Fallback, rec.CompletedAt)
	return err
}

func (p *Postgres) ListRuns(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx,
		`SELECT run_id, algorithm, mode, stop_count, score, duration_ms, fallback, completed_at
		 FROM optimizer_runs ORDER BY completed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.RunID, &rec.Algorithm, &rec.Mode, &rec.StopCount, &rec.Score, &rec.DurationMs, &rec.Fallback, &rec.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
