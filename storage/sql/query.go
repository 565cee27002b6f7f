package sql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sig-0/largestbanks/storage"
)

// QueryResult is the textual result of an ad-hoc query
type QueryResult struct {
	Columns []string
	Rows    [][]string
}

// Query runs an ad-hoc statement for manual inspection,
// rendering every value as text
func (s *Storage) Query(ctx context.Context, statement string) (*QueryResult, error) {
	rows, err := s.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to run query: %w", storage.ErrPersistence, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read columns: %w", storage.ErrPersistence, err)
	}

	result := &QueryResult{
		Columns: cols,
		Rows:    make([][]string, 0, 16),
	}

	var (
		values = make([]any, len(cols))
		ptrs   = make([]any, len(cols))
	)

	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err = rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: unable to scan row: %w", storage.ErrPersistence, err)
		}

		row := make([]string, len(cols))
		for i, v := range values {
			row[i] = formatValue(v)
		}

		result.Rows = append(result.Rows, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: unable to run query: %w", storage.ErrPersistence, err)
	}

	return result, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
