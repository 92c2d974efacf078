package sqlagent

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

const (
	maxRows            = 1000
	statementTimeoutMs = 10000
)

// Executor runs sanitized SQL inside a read-only, timeout-bounded
// transaction that is always rolled back. It never returns an error:
// every failure becomes a single error row carrying the cleaned SQL for
// diagnostics, so the pipeline keeps flowing.
type Executor struct {
	db     *sql.DB
	logger *log.Logger
}

func NewExecutor(db *sql.DB, logger *log.Logger) *Executor {
	return &Executor{
		db:     db,
		logger: logger,
	}
}

func errorRow(message, cleanedSQL string) []map[string]interface{} {
	return []map[string]interface{}{{
		"error": message,
		"sql":   cleanedSQL,
	}}
}

// Execute sanitizes and runs a generated statement, returning rows as
// ordered field-name -> value mappings (truncated to maxRows).
func (e *Executor) Execute(ctx context.Context, generated string) []map[string]interface{} {
	cleaned := Clean(generated)

	if msg := Validate(cleaned); msg != "" {
		return errorRow(msg, cleaned)
	}

	rows, err := e.run(ctx, cleaned)
	if err != nil {
		e.logger.Printf("[SQL] Execution error: %v", err)
		return errorRow(fmt.Sprintf("SQL execution failed: %v", err), cleaned)
	}
	return rows
}

func (e *Executor) run(ctx context.Context, cleaned string) ([]map[string]interface{}, error) {
	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	// This is a read-only query path: no durable side effects are ever
	// intended, so the transaction is always rolled back.
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "SET TRANSACTION READ ONLY"); err != nil {
		return nil, fmt.Errorf("set read-only: %w", err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", statementTimeoutMs)); err != nil {
		return nil, fmt.Errorf("set statement timeout: %w", err)
	}

	directive, body := SplitSearchPath(cleaned)
	if directive != "" {
		// Best-effort: a failed search_path switch is not fatal
		if _, err := tx.ExecContext(ctx, directive); err != nil {
			e.logger.Printf("[SQL] search_path directive failed: %v", err)
		}
	}

	result, err := tx.QueryContext(ctx, body)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	columns, err := result.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := make([]map[string]interface{}, 0)
	for result.Next() {
		values := make([]interface{}, len(columns))
		scanTargets := make([]interface{}, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := result.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		out = append(out, row)

		// Truncate overly large result sets for safety
		if len(out) >= maxRows {
			break
		}
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
