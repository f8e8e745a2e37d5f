package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"brigadas_backend/internal/adapters/docstore"
	"brigadas_backend/internal/brigades/domain"
	"brigadas_backend/internal/brigades/repository"
	"brigadas_backend/internal/events"
	"brigadas_backend/platform/logger"
	"brigadas_backend/platform/validator"
)

var errStoreDown = errors.New("store unavailable")

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// faultyStore wraps the memory store and can fail selected merges.
type faultyStore struct {
	*docstore.MemoryStore

	mu         sync.Mutex
	mergeCalls map[string]int
	// failMerge decides whether the n-th merge (1-based) into collection fails.
	failMerge func(collection string, n int) error
}

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: docstore.NewMemoryStore(), mergeCalls: make(map[string]int)}
}

func (f *faultyStore) Merge(ctx context.Context, collection, id string, patch json.RawMessage, expectedVersion int64) (docstore.Document, error) {
	f.mu.Lock()
	f.mergeCalls[collection]++
	n := f.mergeCalls[collection]
	fail := f.failMerge
	f.mu.Unlock()

	if fail != nil {
		if err := fail(collection, n); err != nil {
			return docstore.Document{}, err
		}
	}
	return f.MemoryStore.Merge(ctx, collection, id, patch, expectedVersion)
}

func (f *faultyStore) merges(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mergeCalls[collection]
}

type recordedRepair struct {
	brigadeID string
	reportID  string
}

type fakeRepairScheduler struct {
	mu      sync.Mutex
	repairs []recordedRepair
}

func (f *fakeRepairScheduler) EnqueueAssignmentRepair(_ context.Context, brigadeID, reportID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repairs = append(f.repairs, recordedRepair{brigadeID: brigadeID, reportID: reportID})
	return nil
}

type testEnv struct {
	store   *faultyStore
	repo    *repository.Repo
	bus     *events.InMemoryBus
	repairs *fakeRepairScheduler
	svc     *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := newFaultyStore()
	repo := repository.New(store)
	bus := events.NewInMemoryBus(logger.Discard())
	repairs := &fakeRepairScheduler{}

	svc := New(repo, repo, bus, validator.New(), logger.Discard(), nil)
	svc.now = func() time.Time { return fixedNow }
	svc.SetRepairScheduler(repairs)

	return &testEnv{store: store, repo: repo, bus: bus, repairs: repairs, svc: svc}
}

func (e *testEnv) putBrigade(t *testing.T, id string, b domain.Brigade) {
	t.Helper()
	if b.Status == "" {
		b.Status = domain.StatusActiva
	}
	if b.AssignedReports == nil {
		b.AssignedReports = []string{}
	}
	b.Stats.InProcessCount = len(b.AssignedReports)
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal brigade: %v", err)
	}
	e.store.Put("brigades", id, data)
}

func (e *testEnv) putReport(t *testing.T, id string, r domain.Report) {
	t.Helper()
	if r.Status == "" {
		r.Status = domain.ReportPendiente
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	e.store.Put("reports", id, data)
}

func (e *testEnv) brigade(t *testing.T, id string) domain.Brigade {
	t.Helper()
	b, err := e.repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("load brigade %s: %v", id, err)
	}
	return b
}

func (e *testEnv) report(t *testing.T, id string) domain.Report {
	t.Helper()
	r, err := e.repo.GetReport(context.Background(), id)
	if err != nil {
		t.Fatalf("load report %s: %v", id, err)
	}
	return r
}
