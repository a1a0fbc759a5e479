package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

func committedGate(t *testing.T) (*usecase.Gate, *memStore, *memWriter, *domain.RunFingerprint, string) {
	t.Helper()
	ctx := context.Background()
	store := newMemStore()
	writer := newMemWriter()
	gate := usecase.NewGate(store, writer, discardLogger)

	set := testSourceSet("org.web3j")
	key := usecase.StateKey(set.SourceRoot, set.Target)
	fp := usecase.ComputeFingerprint(newTestCatalog("Token"), domain.FilterConfig{}, set.Target, "v1")

	path := wrapperPath("org.web3j", "Token")
	_, err := writer.Write(ctx, path, []byte("package web3j\n"))
	require.NoError(t, err)
	hash, _, err := writer.Hash(ctx, path)
	require.NoError(t, err)

	require.NoError(t, gate.Commit(ctx, key, &domain.RunRecord{
		SourceRoot:  set.SourceRoot,
		Target:      set.Target,
		Fingerprint: *fp,
		Outputs:     []domain.WrapperUnit{{ContractName: "Token", PackageName: "org.web3j", OutputPath: path, ContentHash: hash}},
	}))
	return gate, store, writer, fp, key
}

func TestGate_FirstRunIsStale(t *testing.T) {
	gate := usecase.NewGate(newMemStore(), newMemWriter(), discardLogger)
	fp := usecase.ComputeFingerprint(newTestCatalog("Token"), domain.FilterConfig{}, testSourceSet("p").Target, "v1")

	decision, err := gate.Evaluate(context.Background(), "k", fp, false)
	require.NoError(t, err)
	assert.Equal(t, domain.GateStale, decision.State)
	assert.Equal(t, "no previous successful run", decision.Reason)
	assert.Nil(t, decision.Record)
}

func TestGate_Evaluate(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh when nothing changed", func(t *testing.T) {
		gate, store, _, fp, key := committedGate(t)
		decision, err := gate.Evaluate(ctx, key, fp, false)
		require.NoError(t, err)
		assert.Equal(t, domain.GateFresh, decision.State)
		assert.Equal(t, domain.RecordComplete, store.only().Status)
		assert.False(t, store.only().CompletedAt.IsZero())
	})

	t.Run("rerun forces stale", func(t *testing.T) {
		gate, _, _, fp, key := committedGate(t)
		decision, err := gate.Evaluate(ctx, key, fp, true)
		require.NoError(t, err)
		assert.Equal(t, domain.GateStale, decision.State)
		assert.Equal(t, "rerun requested", decision.Reason)
	})

	t.Run("stale when an output was modified", func(t *testing.T) {
		gate, _, writer, fp, key := committedGate(t)
		_, err := writer.Write(ctx, wrapperPath("org.web3j", "Token"), []byte("package web3j\n// edited\n"))
		require.NoError(t, err)

		decision, err := gate.Evaluate(ctx, key, fp, false)
		require.NoError(t, err)
		assert.Equal(t, domain.GateStale, decision.State)
		assert.Contains(t, decision.Reason, "was modified")
	})

	t.Run("stale when an output is missing", func(t *testing.T) {
		gate, _, writer, fp, key := committedGate(t)
		require.NoError(t, writer.Remove(ctx, wrapperPath("org.web3j", "Token")))

		decision, err := gate.Evaluate(ctx, key, fp, false)
		require.NoError(t, err)
		assert.Equal(t, domain.GateStale, decision.State)
		assert.Contains(t, decision.Reason, "is missing")
	})

	t.Run("pending record is never fresh", func(t *testing.T) {
		gate, _, _, fp, key := committedGate(t)
		previous, err := gate.Evaluate(ctx, key, fp, false)
		require.NoError(t, err)
		require.NoError(t, gate.Begin(ctx, key, "/project/out", testSourceSet("org.web3j").Target, previous.Record))

		decision, err := gate.Evaluate(ctx, key, fp, false)
		require.NoError(t, err)
		assert.Equal(t, domain.GateStale, decision.State)
		assert.Equal(t, "previous run did not complete", decision.Reason)
		require.NotNil(t, decision.Record)
		assert.Len(t, decision.Record.Outputs, 1, "pending record keeps known outputs")
	})

	t.Run("failed record is never fresh", func(t *testing.T) {
		gate, store, _, fp, key := committedGate(t)
		require.NoError(t, gate.Fail(key, "/project/out", testSourceSet("org.web3j").Target, nil))

		record := store.only()
		assert.Equal(t, domain.RecordFailed, record.Status)
		assert.Equal(t, domain.RunFingerprint{}, record.Fingerprint)
		assert.Len(t, record.Outputs, 1)

		decision, err := gate.Evaluate(ctx, key, fp, false)
		require.NoError(t, err)
		assert.Equal(t, domain.GateStale, decision.State)
		assert.Equal(t, "previous run failed", decision.Reason)
	})
}

func TestGate_FailWithoutHistoryWritesNothing(t *testing.T) {
	store := newMemStore()
	gate := usecase.NewGate(store, newMemWriter(), discardLogger)

	require.NoError(t, gate.Fail("k", "/project/out", testSourceSet("p").Target, nil))
	assert.Nil(t, store.only())
}

func TestGate_UnreadableRecordIsStale(t *testing.T) {
	store := new(MockFingerprintStore)
	store.On("Load", mock.Anything, "k").Return(nil, errors.New("corrupt"))

	gate := usecase.NewGate(store, newMemWriter(), discardLogger)
	fp := usecase.ComputeFingerprint(newTestCatalog("Token"), domain.FilterConfig{}, testSourceSet("p").Target, "v1")

	decision, err := gate.Evaluate(context.Background(), "k", fp, false)
	require.NoError(t, err)
	assert.Equal(t, domain.GateStale, decision.State)
	store.AssertExpectations(t)
}

func TestGate_CommitPropagatesStoreErrors(t *testing.T) {
	store := new(MockFingerprintStore)
	store.On("Save", mock.Anything, "k", mock.AnythingOfType("*domain.RunRecord")).Return(errors.New("disk full"))

	gate := usecase.NewGate(store, newMemWriter(), discardLogger)
	err := gate.Commit(context.Background(), "k", &domain.RunRecord{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
