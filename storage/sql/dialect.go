package sql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrInvalidTableName  = errors.New("invalid table name")
)

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// dialect captures the SQL differences between the supported drivers
type dialect struct {
	realType    string
	orderBy     string
	placeholder func(n int) string
}

var dialects = map[string]dialect{
	DriverSQLite: {
		realType: "REAL",
		orderBy:  "rowid", // insertion order, the table is recreated on every save
		placeholder: func(_ int) string {
			return "?"
		},
	},
	DriverPostgres: {
		realType: "DOUBLE PRECISION",
		orderBy:  "ctid", // insertion order, rows are never updated after the save
		placeholder: func(n int) string {
			return fmt.Sprintf("$%d", n)
		},
	},
}

// ValidateTableName verifies the table name is a plain SQL identifier
func ValidateTableName(name string) error {
	if !tableNameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, name)
	}

	return nil
}

// columns are the relational report columns, in order
var columns = []string{
	"Name",
	"MC_USD_Billion",
	"MC_EUR_Billion",
	"MC_GBP_Billion",
	"MC_INR_Billion",
}

func quote(identifier string) string {
	return `"` + identifier + `"`
}

func (d dialect) dropTable(table string) string {
	return "DROP TABLE IF EXISTS " + quote(table)
}

func (d dialect) createTable(table string) string {
	defs := make([]string, 0, len(columns))

	for i, column := range columns {
		colType := d.realType
		if i == 0 {
			colType = "TEXT"
		}

		defs = append(defs, quote(column)+" "+colType+" NOT NULL")
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", quote(table), strings.Join(defs, ", "))
}

// insertRows builds a multi-row insert for the given number of rows
func (d dialect) insertRows(table string, rows int) string {
	var sb strings.Builder

	quoted := make([]string, 0, len(columns))
	for _, column := range columns {
		quoted = append(quoted, quote(column))
	}

	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", quote(table), strings.Join(quoted, ", "))

	n := 1

	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString("(")

		for c := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(d.placeholder(n))
			n++
		}

		sb.WriteString(")")
	}

	return sb.String()
}

func (d dialect) selectAll(table string) string {
	quoted := make([]string, 0, len(columns))
	for _, column := range columns {
		quoted = append(quoted, quote(column))
	}

	return fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s",
		strings.Join(quoted, ", "),
		quote(table),
		d.orderBy,
	)
}
