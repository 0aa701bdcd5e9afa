package refresh

import (
	"context"
	"sync"

	"github.com/ethanbaker/lawcus-relay/pkg/lawcus"
	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
	"github.com/sirupsen/logrus"
)

// TokenRefresher performs the refresh grant against the provider
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*lawcus.TokenResponse, error)
}

// Service runs the refresh flow: read the stored refresh token, trade it in,
// store the new pair. It is shared by the scheduler and the /oauth/refresh
// route; refreshes are serialized so two callers never spend the same
// refresh token concurrently.
type Service struct {
	store     *tokens.Store
	refresher TokenRefresher
	log       *logrus.Entry

	mutex sync.Mutex
}

// NewService creates a refresh service
func NewService(store *tokens.Store, refresher TokenRefresher, logger *logrus.Logger) *Service {
	return &Service{
		store:     store,
		refresher: refresher,
		log:       logger.WithField("module", "REFRESH"),
	}
}

// Refresh exchanges the stored refresh token for a new pair and stores it.
// It returns lawcus.ErrNoRefreshToken without calling upstream when nothing
// is stored.
func (s *Service) Refresh(ctx context.Context) (*lawcus.TokenResponse, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	refreshToken, ok := s.store.Read(ctx, tokens.Refresh)
	if !ok {
		return nil, lawcus.ErrNoRefreshToken
	}

	resp, err := s.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	// Providers may keep the refresh token unchanged and omit it
	pair := resp.Pair()
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}

	// The old refresh token may already be spent, so the write outlives the caller
	if !s.store.Write(context.WithoutCancel(ctx), pair) {
		s.log.Warn("refreshed tokens could not be persisted; continuing with the new access token")
	}

	return resp, nil
}
