package storage

import (
	"context"
	"errors"

	"github.com/sig-0/largestbanks/storage/types"
)

// ErrPersistence wraps every storage write or read failure
var ErrPersistence = errors.New("persistence failure")

// Storage is an abstraction over the persisted bank report
type Storage interface {
	// SaveBanks replaces the stored report with the given banks, in order
	SaveBanks(context.Context, []*types.EnrichedBank) error

	// ListBanks lists the stored report, in ranking order
	ListBanks(context.Context) ([]*types.EnrichedBank, error)
}

// Conn is a Storage bound to an open connection, that needs to be released
type Conn interface {
	Storage

	// Close releases the underlying connection
	Close() error
}
