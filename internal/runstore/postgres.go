package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres persists run history via database/sql over the pgx stdlib
// driver, the same combination as the teacher's internal/store/postgres.go.
type Postgres struct {
	db *sql.DB
}

// NewPostgres opens a connection pool against dsn. The caller is
// responsible for having applied the solve_runs/solve_run_weights
// schema (see migrations in the teacher's plan_metrics tables, which
// this schema mirrors).
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) SaveRun(ctx context.Context, r RunRecord) error {
	initRem, _ := json.Marshal(r.InitRemovalWeights)
	initIns, _ := json.Marshal(r.InitInsertWeights)
	finRem, _ := json.Marshal(r.FinalRemovalWeights)
	finIns, _ := json.Marshal(r.FinalInsertWeights)
	_, err := p.db.ExecContext(ctx, `INSERT INTO solve_runs (
			run_id, started_at, streams, iterations, improvements, accepted_worse,
			best_objective, final_objective, unassigned_jobs, init_temp, cooling,
			init_removal_weights, init_insert_weights, final_removal_weights, final_insert_weights
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (run_id) DO UPDATE SET
			iterations=$4, improvements=$5, accepted_worse=$6, best_objective=$7,
			final_objective=$8, unassigned_jobs=$9, final_removal_weights=$14, final_insert_weights=$15`,
		r.RunID, r.StartedAt, r.Streams, r.Iterations, r.Improvements, r.AcceptedWorse,
		r.BestObjective, r.FinalObjective, r.UnassignedJobs, r.InitTemperature, r.CoolingFactor,
		initRem, initIns, finRem, finIns,
	)
	return err
}

func (p *Postgres) GetRun(ctx context.Context, runID string) (RunRecord, bool, error) {
	row := p.db.QueryRowContext(ctx, `SELECT run_id, started_at, streams, iterations, improvements, accepted_worse,
			best_objective, final_objective, unassigned_jobs, init_temp, cooling,
			init_removal_weights, init_insert_weights, final_removal_weights, final_insert_weights
		FROM solve_runs WHERE run_id=$1`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, false, nil
	}
	if err != nil {
		return RunRecord{}, false, err
	}
	return r, true, nil
}

func (p *Postgres) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx, `SELECT run_id, started_at, streams, iterations, improvements, accepted_worse,
			best_objective, final_objective, unassigned_jobs, init_temp, cooling,
			init_removal_weights, init_insert_weights, final_removal_weights, final_insert_weights
		FROM solve_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var r RunRecord
	var initRem, initIns, finRem, finIns []byte
	if err := row.Scan(&r.RunID, &r.StartedAt, &r.Streams, &r.Iterations, &r.Improvements, &r.AcceptedWorse,
		&r.BestObjective, &r.FinalObjective, &r.UnassignedJobs, &r.InitTemperature, &r.CoolingFactor,
		&initRem, &initIns, &finRem, &finIns); err != nil {
		return RunRecord{}, err
	}
	_ = json.Unmarshal(initRem, &r.InitRemovalWeights)
	_ = json.Unmarshal(initIns, &r.InitInsertWeights)
	_ = json.Unmarshal(finRem, &r.FinalRemovalWeights)
	_ = json.Unmarshal(finIns, &r.FinalInsertWeights)
	return r, nil
}

func (p *Postgres) SaveWeightTrace(ctx context.Context, runID string, snaps []WeightSnapshot) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, snap := range snaps {
		rem, _ := json.Marshal(snap.Removal)
		ins, _ := json.Marshal(snap.Insert)
		if _, err := tx.ExecContext(ctx, `INSERT INTO solve_run_weights (run_id, iteration, removal_weights, insert_weights)
			VALUES ($1,$2,$3,$4)`, runID, snap.Iteration, rem, ins); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (p *Postgres) GetWeightTrace(ctx context.Context, runID string) ([]WeightSnapshot, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT iteration, removal_weights, insert_weights FROM solve_run_weights
		WHERE run_id=$1 ORDER BY iteration`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WeightSnapshot
	for rows.Next() {
		var snap WeightSnapshot
		var rem, ins []byte
		if err := rows.Scan(&snap.Iteration, &rem, &ins); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(rem, &snap.Removal)
		_ = json.Unmarshal(ins, &snap.Insert)
		out = append(out, snap)
	}
	return out, rows.Err()
}
