package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/epidemic-sim/epidemic-sim/sim"
	"github.com/epidemic-sim/epidemic-sim/sim/network"
)

// Run identifies a stored simulation run.
type Run struct {
	ID        int64
	Label     string
	StepSize  float64
	Days      float64
	CreatedAt time.Time
}

// RunStore writes and reads simulation runs in a SQLite database.
type RunStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the database file at path.
func Open(ctx context.Context, path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &RunStore{db: db}, nil
}

// Close closes the database.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// SaveRun stores every region's trajectory in one transaction and returns the run ID.
func (s *RunStore) SaveRun(ctx context.Context, label string, stepSize, days float64, results []network.RegionResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (label, step_size, days, created_at) VALUES (?, ?, ?, ?)`,
		label, stepSize, days, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	regionStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_regions (run_id, region, r_naught, traffic_rate, initial_population) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare region insert: %w", err)
	}
	defer regionStmt.Close()

	stateStmt, err := tx.PrepareContext(ctx, `INSERT INTO region_states
        (run_id, region, step, day, susceptible, exposed, infectious, recovered, dead, population, hospitalized)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare state insert: %w", err)
	}
	defer stateStmt.Close()

	for _, r := range results {
		var r0, traffic, pop float64
		if r.Params != nil {
			r0, traffic, pop = r.Params.RNaught, r.Params.TrafficRate, r.Params.InitialPopulation
		}
		if _, err := regionStmt.ExecContext(ctx, runID, r.Name, r0, traffic, pop); err != nil {
			return 0, fmt.Errorf("failed to insert region %q: %w", r.Name, err)
		}
		for step, st := range r.Series {
			if _, err := stateStmt.ExecContext(ctx, runID, r.Name, step, r.Times[step],
				st[sim.Susceptible], st[sim.Exposed], st[sim.Infectious], st[sim.Recovered],
				st[sim.Dead], st[sim.Population], st[sim.Hospitalized]); err != nil {
				return 0, fmt.Errorf("failed to insert state %s/%d: %w", r.Name, step, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns all stored runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label, step_size, days, created_at FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Label, &r.StepSize, &r.Days, &created); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LoadSeries returns one region's stored trajectory in step order.
func (s *RunStore) LoadSeries(ctx context.Context, runID int64, region string) ([]sim.StateVector, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT susceptible, exposed, infectious, recovered, dead, population, hospitalized
        FROM region_states WHERE run_id = ? AND region = ? ORDER BY step`, runID, region)
	if err != nil {
		return nil, fmt.Errorf("failed to query states: %w", err)
	}
	defer rows.Close()

	var series []sim.StateVector
	for rows.Next() {
		var st sim.StateVector
		if err := rows.Scan(&st[sim.Susceptible], &st[sim.Exposed], &st[sim.Infectious], &st[sim.Recovered],
			&st[sim.Dead], &st[sim.Population], &st[sim.Hospitalized]); err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}
		series = append(series, st)
	}
	return series, rows.Err()
}
