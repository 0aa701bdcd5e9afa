package tokens

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Store owns the single persisted token pair. Reads and writes never return
// errors to the caller: failures are logged and reported as absent/false.
type Store struct {
	backend Backend
	log     *logrus.Entry
}

// NewStore wraps a backend with the fail-soft read/write contract
func NewStore(backend Backend, logger *logrus.Logger) *Store {
	return &Store{
		backend: backend,
		log:     logger.WithField("module", "TOKENS"),
	}
}

// Read returns the stored token of the given kind
func (s *Store) Read(ctx context.Context, kind Kind) (string, bool) {
	pair, err := s.backend.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.WithError(err).Error("failed to read token record")
		}
		return "", false
	}

	if pair == nil || !pair.Complete() {
		s.log.Warn("stored token record is incomplete, ignoring it")
		return "", false
	}

	return pair.Get(kind)
}

// Write replaces the stored pair. It returns false when the pair is partial
// or the backend fails.
func (s *Store) Write(ctx context.Context, pair Pair) bool {
	if !pair.Complete() {
		s.log.Error("refusing to store a partial token pair")
		return false
	}

	if err := s.backend.Save(ctx, pair); err != nil {
		s.log.WithError(err).Error("failed to write token record")
		return false
	}

	return true
}

// Close releases the backend's connections, if it holds any
func (s *Store) Close() error {
	closer, ok := s.backend.(io.Closer)
	if !ok {
		return nil
	}
	return closer.Close()
}
