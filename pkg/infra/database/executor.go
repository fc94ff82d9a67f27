package database

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Executor implements sources.QueryExecutor over gorm. Cursors are released
// on every exit path; a leak on the error path would pin a pool connection
// for the rest of the process lifetime.
type Executor struct {
	db     *gorm.DB
	logger logrus.FieldLogger
}

func NewExecutor(db *gorm.DB, logger logrus.FieldLogger) *Executor {
	return &Executor{db: db, logger: logger}
}

// QueryRows returns every row of the statement as a column-name keyed map.
// SQL NULL maps to nil so it serializes as JSON null.
func (e *Executor) QueryRows(ctx context.Context, query string) ([]map[string]interface{}, error) {
	rows, err := e.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			e.logger.WithError(closeErr).Warn("failed to close query cursor")
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]map[string]interface{}, 0)
	values := make([]interface{}, len(columns))
	scanTargets := make([]interface{}, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			row[column] = normalizeValue(values[i])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// QuerySingleValue returns the first column of the first row. found is
// false when the statement produced no rows; extraRows is true when it
// produced more than one, extraColumns when its rows carry more than one
// column. Cardinality surprises are reported as flags, not scan errors, so
// the caller can classify them as contract violations.
func (e *Executor) QuerySingleValue(ctx context.Context, query string) (string, bool, bool, bool, error) {
	rows, err := e.db.WithContext(ctx).Raw(query).Rows()
	if err != nil {
		return "", false, false, false, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			e.logger.WithError(closeErr).Warn("failed to close query cursor")
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return "", false, false, false, err
	}
	if len(columns) != 1 {
		return "", false, false, true, nil
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", false, false, false, err
		}
		return "", false, false, false, nil
	}

	var value sql.NullString
	if err := rows.Scan(&value); err != nil {
		return "", false, false, false, err
	}

	extraRows := rows.Next()
	if err := rows.Err(); err != nil {
		return "", false, false, false, err
	}
	return value.String, true, extraRows, false, nil
}

// normalizeValue converts driver-level values into JSON-friendly Go values.
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
