package usecase_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/domain/config"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

const testABI = `[{"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"}]`

var discardLogger = slog.New(slog.DiscardHandler)

func newArtifact(name string) *domain.ContractArtifact {
	abi := json.RawMessage(testABI)
	return &domain.ContractArtifact{
		Name:              name,
		SourcePath:        name + ".abi",
		Format:            domain.FormatSolc,
		ABI:               abi,
		Bytecode:          "6080",
		SourceFingerprint: usecase.ArtifactFingerprint(abi, []byte(name)),
	}
}

func newTestCatalog(names ...string) *domain.Catalog {
	artifacts := make([]*domain.ContractArtifact, 0, len(names))
	for _, name := range names {
		artifacts = append(artifacts, newArtifact(name))
	}
	return domain.NewCatalog("/project/out", artifacts)
}

// fakeCatalog serves a fixed catalog and can be swapped between runs
type fakeCatalog struct {
	mu      sync.Mutex
	catalog *domain.Catalog
	err     error
}

func (c *fakeCatalog) Scan(ctx context.Context, sourceRoot string) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.catalog, nil
}

func (c *fakeCatalog) set(catalog *domain.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = catalog
}

// fakeBinder renders a deterministic wrapper and fails for selected contracts
type fakeBinder struct {
	mu       sync.Mutex
	failFor  map[string]error
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	calls    atomic.Int32
}

func (b *fakeBinder) Bind(ctx context.Context, artifact *domain.ContractArtifact, target domain.GenerationTarget) ([]byte, error) {
	b.calls.Add(1)
	n := b.inFlight.Add(1)
	defer b.inFlight.Add(-1)
	for {
		seen := b.maxSeen.Load()
		if n <= seen || b.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if b.delay > 0 {
		time.Sleep(b.delay)
	}

	b.mu.Lock()
	err := b.failFor[artifact.Name]
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("package %s\n\n// %s %s\n", target.GoPackage(), artifact.Name, artifact.SourceFingerprint.Hex())), nil
}

func (b *fakeBinder) fail(name string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failFor == nil {
		b.failFor = make(map[string]error)
	}
	b.failFor[name] = err
}

func (b *fakeBinder) heal(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failFor, name)
}

// memWriter keeps generated files in memory
type memWriter struct {
	mu      sync.Mutex
	files   map[string][]byte
	writes  int
	removed []string
}

func newMemWriter() *memWriter {
	return &memWriter{files: make(map[string][]byte)}
}

func (w *memWriter) Write(_ context.Context, path string, content []byte) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if existing, ok := w.files[path]; ok && string(existing) == string(content) {
		return false, nil
	}
	w.files[path] = append([]byte(nil), content...)
	w.writes++
	return true, nil
}

func (w *memWriter) Remove(_ context.Context, path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
	w.removed = append(w.removed, path)
	return nil
}

func (w *memWriter) Hash(_ context.Context, path string) (common.Hash, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	content, ok := w.files[path]
	if !ok {
		return common.Hash{}, false, nil
	}
	return crypto.Keccak256Hash(content), true, nil
}

func (w *memWriter) paths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for p := range w.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (w *memWriter) writeCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

// memStore keeps run records in memory, copying on the way in and out
type memStore struct {
	mu      sync.Mutex
	records map[string]domain.RunRecord
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]domain.RunRecord)}
}

func (s *memStore) Load(_ context.Context, key string) (*domain.RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[key]
	if !ok {
		return nil, nil
	}
	record.Outputs = append([]domain.WrapperUnit(nil), record.Outputs...)
	return &record, nil
}

func (s *memStore) Save(_ context.Context, key string, record *domain.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	copied.Outputs = append([]domain.WrapperUnit(nil), record.Outputs...)
	s.records[key] = copied
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *memStore) only() *domain.RunRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		return &r
	}
	return nil
}

// MockFingerprintStore is a mock implementation of FingerprintStore
type MockFingerprintStore struct {
	mock.Mock
}

func (m *MockFingerprintStore) Load(ctx context.Context, key string) (*domain.RunRecord, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RunRecord), args.Error(1)
}

func (m *MockFingerprintStore) Save(ctx context.Context, key string, record *domain.RunRecord) error {
	args := m.Called(ctx, key, record)
	return args.Error(0)
}

func (m *MockFingerprintStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// recordingSink captures progress events
type recordingSink struct {
	mu     sync.Mutex
	events []usecase.ProgressEvent
	errors []string
}

func (s *recordingSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Info(string) {}

func (s *recordingSink) Error(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, message)
}

func testSourceSet(pkg string) config.SourceSet {
	return config.SourceSet{
		Name:       "main",
		SourceRoot: "/project/out",
		Target: domain.GenerationTarget{
			PackageName: pkg,
			OutputRoot:  "/project/build/generated",
			Flavor:      domain.FlavorV2,
		},
	}
}

func wrapperPath(pkg, contract string) string {
	set := testSourceSet(pkg)
	return filepath.Join(set.Target.PackageDir(), contract+".go")
}
