package tokens_test

import (
	"context"
	"errors"
	"testing"

	stores "github.com/ethanbaker/lawcus-relay/internal/stores/tokens"
	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBackend returns err from every call
type failingBackend struct {
	err  error
	pair *tokens.Pair
}

func (b *failingBackend) Load(ctx context.Context) (*tokens.Pair, error) {
	return b.pair, b.err
}

func (b *failingBackend) Save(ctx context.Context, pair tokens.Pair) error {
	return b.err
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	store := tokens.NewStore(stores.NewInMemoryStore(), logger)

	pairs := []tokens.Pair{
		{AccessToken: "a", RefreshToken: "r"},
		{AccessToken: "eyJhbGciOi.access", RefreshToken: "def50200.refresh"},
		{AccessToken: "with spaces", RefreshToken: "and\nnewlines"},
	}

	for _, pair := range pairs {
		require.True(t, store.Write(ctx, pair))

		access, ok := store.Read(ctx, tokens.Access)
		assert.True(t, ok)
		assert.Equal(t, pair.AccessToken, access)

		refresh, ok := store.Read(ctx, tokens.Refresh)
		assert.True(t, ok)
		assert.Equal(t, pair.RefreshToken, refresh)
	}
}

func TestStoreNeverWritten(t *testing.T) {
	ctx := context.Background()
	logger, hook := test.NewNullLogger()
	store := tokens.NewStore(stores.NewInMemoryStore(), logger)

	_, ok := store.Read(ctx, tokens.Access)
	assert.False(t, ok)

	_, ok = store.Read(ctx, tokens.Refresh)
	assert.False(t, ok)

	// An empty store is not an error worth logging
	assert.Empty(t, hook.AllEntries())
}

func TestStoreRejectsPartialPair(t *testing.T) {
	ctx := context.Background()
	logger, hook := test.NewNullLogger()
	backend := stores.NewInMemoryStore()
	store := tokens.NewStore(backend, logger)

	require.True(t, store.Write(ctx, tokens.Pair{AccessToken: "a", RefreshToken: "r"}))

	assert.False(t, store.Write(ctx, tokens.Pair{AccessToken: "only-access"}))
	assert.False(t, store.Write(ctx, tokens.Pair{RefreshToken: "only-refresh"}))
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	// The previous complete pair survives
	access, ok := store.Read(ctx, tokens.Access)
	assert.True(t, ok)
	assert.Equal(t, "a", access)
}

func TestStorePartialRecordIsAbsent(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := tokens.NewStore(&failingBackend{pair: &tokens.Pair{AccessToken: "a"}}, logger)

	_, ok := store.Read(context.Background(), tokens.Access)
	assert.False(t, ok)
}

func TestStoreSwallowsBackendErrors(t *testing.T) {
	ctx := context.Background()
	logger, hook := test.NewNullLogger()
	store := tokens.NewStore(&failingBackend{err: errors.New("disk on fire")}, logger)

	_, ok := store.Read(ctx, tokens.Refresh)
	assert.False(t, ok)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	hook.Reset()
	assert.False(t, store.Write(ctx, tokens.Pair{AccessToken: "a", RefreshToken: "r"}))
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "TOKENS", hook.LastEntry().Data["module"])
}

func TestPairGet(t *testing.T) {
	pair := tokens.Pair{AccessToken: "a", RefreshToken: "r"}

	value, ok := pair.Get(tokens.Access)
	assert.True(t, ok)
	assert.Equal(t, "a", value)

	_, ok = pair.Get(tokens.Kind("id"))
	assert.False(t, ok)
}

// closingBackend records whether Close was called
type closingBackend struct {
	failingBackend
	closed bool
}

func (b *closingBackend) Close() error {
	b.closed = true
	return b.err
}

func TestStoreClose(t *testing.T) {
	logger, _ := test.NewNullLogger()

	t.Run("closes backends holding connections", func(t *testing.T) {
		backend := &closingBackend{}
		require.NoError(t, tokens.NewStore(backend, logger).Close())
		assert.True(t, backend.closed)
	})

	t.Run("reports close errors", func(t *testing.T) {
		backend := &closingBackend{failingBackend: failingBackend{err: errors.New("connection reset")}}
		assert.EqualError(t, tokens.NewStore(backend, logger).Close(), "connection reset")
	})

	t.Run("other backends are a no-op", func(t *testing.T) {
		assert.NoError(t, tokens.NewStore(stores.NewInMemoryStore(), logger).Close())
	})
}
