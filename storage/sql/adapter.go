package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx driver
	_ "modernc.org/sqlite"             // registers the sqlite driver

	"github.com/sig-0/largestbanks/storage"
	"github.com/sig-0/largestbanks/storage/types"
)

// batchSize is the number of rows per INSERT statement,
// well below the bind variable limits of both drivers
const batchSize = 500

const pingTimeout = 5 * time.Second

// Storage is the relational report store, bound to a single table
type Storage struct {
	db      *sql.DB
	dialect dialect
	table   string
}

// Open opens and pings the database, binding the storage to the given table
func Open(ctx context.Context, driver, dsn, table string) (*Storage, error) {
	if _, ok := dialects[driver]; !ok {
		return nil, fmt.Errorf("%w: %w: %q", storage.ErrPersistence, ErrUnsupportedDriver, driver)
	}

	if err := ValidateTableName(table); err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrPersistence, err)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to open DB connection: %w", storage.ErrPersistence, err)
	}

	if driver == DriverSQLite {
		// Keep a single connection, so in-memory databases are shared
		// and writers never contend with each other
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancelFn := context.WithTimeout(ctx, pingTimeout)
	defer cancelFn()

	if err = db.PingContext(pingCtx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("%w: unable to reach DB (ping): %w", storage.ErrPersistence, err)
	}

	return NewStorage(db, driver, table)
}

// NewStorage wraps an already open database
func NewStorage(db *sql.DB, driver, table string) (*Storage, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	if err := ValidateTableName(table); err != nil {
		return nil, err
	}

	return &Storage{
		db:      db,
		dialect: d,
		table:   table,
	}, nil
}

// SaveBanks replaces the report table with the given banks.
// The drop, create and inserts run in one transaction, so a failure
// leaves the previous table as it was
func (s *Storage) SaveBanks(ctx context.Context, banks []*types.EnrichedBank) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: unable to begin transaction: %w", storage.ErrPersistence, err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("unable to roll back: %w", rbErr))
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, s.dialect.dropTable(s.table)); err != nil {
		return fmt.Errorf("%w: unable to drop table %s: %w", storage.ErrPersistence, s.table, err)
	}

	if _, err = tx.ExecContext(ctx, s.dialect.createTable(s.table)); err != nil {
		return fmt.Errorf("%w: unable to create table %s: %w", storage.ErrPersistence, s.table, err)
	}

	for start := 0; start < len(banks); start += batchSize {
		end := min(start+batchSize, len(banks))
		batch := banks[start:end]

		args := make([]any, 0, len(batch)*len(columns))
		for _, bank := range batch {
			args = append(
				args,
				bank.Name,
				bank.MarketCapUSD,
				bank.MarketCapEUR,
				bank.MarketCapGBP,
				bank.MarketCapINR,
			)
		}

		if _, err = tx.ExecContext(ctx, s.dialect.insertRows(s.table, len(batch)), args...); err != nil {
			return fmt.Errorf("%w: unable to insert banks: %w", storage.ErrPersistence, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: unable to commit: %w", storage.ErrPersistence, err)
	}

	return nil
}

// ListBanks lists the stored report in ranking order
func (s *Storage) ListBanks(ctx context.Context) ([]*types.EnrichedBank, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.selectAll(s.table))
	if err != nil {
		return nil, fmt.Errorf("%w: unable to fetch banks: %w", storage.ErrPersistence, err)
	}
	defer rows.Close()

	banks := make([]*types.EnrichedBank, 0, 16)

	for rows.Next() {
		var bank types.EnrichedBank

		if err = rows.Scan(
			&bank.Name,
			&bank.MarketCapUSD,
			&bank.MarketCapEUR,
			&bank.MarketCapGBP,
			&bank.MarketCapINR,
		); err != nil {
			return nil, fmt.Errorf("%w: unable to scan bank: %w", storage.ErrPersistence, err)
		}

		banks = append(banks, &bank)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: unable to fetch banks: %w", storage.ErrPersistence, err)
	}

	return banks, nil
}

// Close closes the underlying database
func (s *Storage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: unable to close DB: %w", storage.ErrPersistence, err)
	}

	return nil
}
