package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialect_Statements(t *testing.T) {
	t.Parallel()

	t.Run("sqlite insert", func(t *testing.T) {
		t.Parallel()

		assert.Equal(
			t,
			`INSERT INTO "Largest_banks" ("Name", "MC_USD_Billion", "MC_EUR_Billion", "MC_GBP_Billion", "MC_INR_Billion") VALUES (?, ?, ?, ?, ?), (?, ?, ?, ?, ?)`,
			dialects[DriverSQLite].insertRows("Largest_banks", 2),
		)
	})

	t.Run("postgres insert", func(t *testing.T) {
		t.Parallel()

		assert.Equal(
			t,
			`INSERT INTO "t" ("Name", "MC_USD_Billion", "MC_EUR_Billion", "MC_GBP_Billion", "MC_INR_Billion") VALUES ($1, $2, $3, $4, $5), ($6, $7, $8, $9, $10)`,
			dialects[DriverPostgres].insertRows("t", 2),
		)
	})

	t.Run("select keeps insertion order", func(t *testing.T) {
		t.Parallel()

		assert.Equal(
			t,
			`SELECT "Name", "MC_USD_Billion", "MC_EUR_Billion", "MC_GBP_Billion", "MC_INR_Billion" FROM "t" ORDER BY rowid`,
			dialects[DriverSQLite].selectAll("t"),
		)

		assert.Equal(
			t,
			`SELECT "Name", "MC_USD_Billion", "MC_EUR_Billion", "MC_GBP_Billion", "MC_INR_Billion" FROM "t" ORDER BY ctid`,
			dialects[DriverPostgres].selectAll("t"),
		)
	})

	t.Run("postgres create", func(t *testing.T) {
		t.Parallel()

		assert.Equal(
			t,
			`CREATE TABLE "t" ("Name" TEXT NOT NULL, "MC_USD_Billion" DOUBLE PRECISION NOT NULL, "MC_EUR_Billion" DOUBLE PRECISION NOT NULL, "MC_GBP_Billion" DOUBLE PRECISION NOT NULL, "MC_INR_Billion" DOUBLE PRECISION NOT NULL)`,
			dialects[DriverPostgres].createTable("t"),
		)
	})

	t.Run("drop", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, `DROP TABLE IF EXISTS "t"`, dialects[DriverSQLite].dropTable("t"))
	})
}

func TestValidateTableName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Largest_banks", "_t", "banks2024q3"} {
		assert.NoError(t, ValidateTableName(name), name)
	}

	for _, name := range []string{"", "1banks", "banks; DROP TABLE x", `a"b`, "a-b"} {
		assert.ErrorIs(t, ValidateTableName(name), ErrInvalidTableName, name)
	}
}
