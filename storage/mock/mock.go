package mock

import (
	"context"

	"github.com/sig-0/largestbanks/storage/types"
)

type (
	SaveBanksDelegate func(context.Context, []*types.EnrichedBank) error
	ListBanksDelegate func(context.Context) ([]*types.EnrichedBank, error)
	CloseDelegate     func() error
)

type Storage struct {
	SaveBanksFn SaveBanksDelegate
	ListBanksFn ListBanksDelegate
	CloseFn     CloseDelegate
}

func (m *Storage) SaveBanks(ctx context.Context, banks []*types.EnrichedBank) error {
	if m.SaveBanksFn != nil {
		return m.SaveBanksFn(ctx, banks)
	}

	return nil
}

func (m *Storage) ListBanks(ctx context.Context) ([]*types.EnrichedBank, error) {
	if m.ListBanksFn != nil {
		return m.ListBanksFn(ctx)
	}

	return nil, nil
}

func (m *Storage) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}

	return nil
}
