package ingest

import (
	"context"
	"sync"

	"github.com/sig-0/largestbanks/ingest/config"
	"github.com/sig-0/largestbanks/progress"
	"github.com/sig-0/largestbanks/provider/rates"
	"github.com/sig-0/largestbanks/storage"
	"github.com/sig-0/largestbanks/storage/types"
)

type (
	fetchDelegate   func(context.Context, string) ([]byte, error)
	parseDelegate   func([]byte) (*types.Table, error)
	loadDelegate    func(string) (*rates.Table, error)
	writeDelegate   func(string, []*types.EnrichedBank) error
	connectDelegate func(context.Context, config.Database) (storage.Conn, error)
)

type mockDocumentSource struct {
	fetchFn fetchDelegate
}

func (m *mockDocumentSource) Fetch(ctx context.Context, address string) ([]byte, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, address)
	}

	return nil, nil
}

type mockTableSource struct {
	parseFn parseDelegate
}

func (m *mockTableSource) Parse(doc []byte) (*types.Table, error) {
	if m.parseFn != nil {
		return m.parseFn(doc)
	}

	return nil, nil
}

type mockRateSource struct {
	loadFn loadDelegate
}

func (m *mockRateSource) Load(path string) (*rates.Table, error) {
	if m.loadFn != nil {
		return m.loadFn(path)
	}

	return nil, nil
}

type mockFlatSink struct {
	writeFn writeDelegate
}

func (m *mockFlatSink) Write(path string, banks []*types.EnrichedBank) error {
	if m.writeFn != nil {
		return m.writeFn(path, banks)
	}

	return nil
}

type mockConnector struct {
	connectFn connectDelegate
}

func (m *mockConnector) Connect(ctx context.Context, target config.Database) (storage.Conn, error) {
	if m.connectFn != nil {
		return m.connectFn(ctx, target)
	}

	return nil, nil
}

// eventRecorder records every emitted stage
type eventRecorder struct {
	stages []progress.Stage

	mu sync.Mutex
}

func (r *eventRecorder) StageCompleted(_ context.Context, e progress.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stages = append(r.stages, e.Stage)

	return nil
}

func (r *eventRecorder) Stages() []progress.Stage {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]progress.Stage, len(r.stages))
	copy(out, r.stages)

	return out
}
