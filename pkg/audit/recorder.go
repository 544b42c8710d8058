// pkg/audit/recorder.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/market-radar/dataquality/pkg/model"
)

const (
	setupTimeout  = 10 * time.Second
	insertTimeout = 30 * time.Second
)

// Recorder persists column-level transformation operations to a Postgres
// tracking table, giving every run a queryable audit trail of what changed
// and why.
type Recorder struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewRecorder connects to Postgres using the given DSN and ensures the
// tracking table exists.
func NewRecorder(dsn string, logger *zap.Logger) (*Recorder, error) {
	if dsn == "" {
		return nil, fmt.Errorf("audit DSN cannot be empty")
	}
	if logger == nil {
		logger = zap.L().Named("audit")
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to audit database: %w", err)
	}

	r := &Recorder{db: db, logger: logger}
	if err := r.setupTrackingTable(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// NewRecorderWithDB wraps an existing connection, mainly for tests.
func NewRecorderWithDB(db *sqlx.DB, logger *zap.Logger) (*Recorder, error) {
	if logger == nil {
		logger = zap.L().Named("audit")
	}
	r := &Recorder{db: db, logger: logger}
	if err := r.setupTrackingTable(); err != nil {
		return nil, err
	}
	return r, nil
}

// setupTrackingTable ensures the field_transformations tracking table exists.
func (r *Recorder) setupTrackingTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS public.field_transformations (
			id SERIAL PRIMARY KEY,
			operation_id TEXT NOT NULL,
			dataset_name TEXT NOT NULL,
			execution_id TEXT NOT NULL,
			column_name TEXT NOT NULL,
			from_type TEXT NOT NULL,
			to_type TEXT NOT NULL,
			cells_changed INTEGER NOT NULL,
			cells_retained INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			detail JSONB,
			recorded_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := r.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create tracking table: %w", err)
	}

	r.logger.Info("Ensured field_transformations table exists")
	return nil
}

// Record batch inserts operations into the tracking table in one
// transaction. Operations without an ID are assigned one.
func (r *Recorder) Record(ctx context.Context, operations []model.Operation) (err error) {
	if len(operations) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, insertTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO public.field_transformations
		(operation_id, dataset_name, execution_id, column_name, from_type,
		 to_type, cells_changed, cells_retained, outcome, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, op := range operations {
		if op.OperationID == "" {
			op.OperationID = uuid.New().String()
		}

		var detail interface{}
		if op.Detail != nil {
			data, mErr := json.Marshal(op.Detail)
			if mErr != nil {
				err = fmt.Errorf("failed to marshal operation detail: %w", mErr)
				return err
			}
			detail = data
		}

		if _, err = stmt.ExecContext(ctx,
			op.OperationID,
			op.DatasetName,
			op.ExecutionID,
			op.ColumnName,
			op.FromType,
			op.ToType,
			op.CellsChanged,
			op.CellsRetained,
			op.Outcome,
			detail,
		); err != nil {
			return fmt.Errorf("failed to insert operation for column %s: %w", op.ColumnName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit operations: %w", err)
	}

	r.logger.Info("Recorded transformation operations",
		zap.Int("count", len(operations)))
	return nil
}

// OperationsForExecution returns the audit records of one run, oldest first.
func (r *Recorder) OperationsForExecution(ctx context.Context, executionID string) ([]model.Operation, error) {
	rows, err := r.db.QueryxContext(ctx, `
		SELECT operation_id, dataset_name, execution_id, column_name,
		       from_type, to_type, cells_changed, cells_retained, outcome, recorded_at
		FROM public.field_transformations
		WHERE execution_id = $1
		ORDER BY id
	`, executionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	var operations []model.Operation
	for rows.Next() {
		var op model.Operation
		if err := rows.Scan(
			&op.OperationID,
			&op.DatasetName,
			&op.ExecutionID,
			&op.ColumnName,
			&op.FromType,
			&op.ToType,
			&op.CellsChanged,
			&op.CellsRetained,
			&op.Outcome,
			&op.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		operations = append(operations, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operations: %w", err)
	}

	return operations, nil
}

// Close releases the database connection.
func (r *Recorder) Close() error {
	return r.db.Close()
}
