package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethanbaker/lawcus-relay/pkg/lawcus"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultInterval keeps the access token inside the provider's token
// lifetime with margin
const DefaultInterval = 50 * time.Minute

// Manager refreshes the stored tokens on a fixed cadence. A failed tick is
// logged and dropped; the next tick is the retry.
type Manager struct {
	service  *Service
	cron     *cron.Cron
	interval time.Duration
	log      *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager schedules service.Refresh every interval. The schedule does not
// run until Start is called.
func NewManager(service *Service, interval time.Duration, logger *logrus.Logger) (*Manager, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		service:  service,
		cron:     cron.New(),
		interval: interval,
		log:      logger.WithField("module", "REFRESH"),
		ctx:      ctx,
		cancel:   cancel,
	}

	if _, err := m.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() { m.RunOnce(m.ctx) }); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to schedule token refresh: %w", err)
	}

	return m, nil
}

// Start begins the schedule in the background
func (m *Manager) Start() {
	m.log.WithField("interval", m.interval.String()).Info("token refresh scheduled")
	m.cron.Start()
}

// Stop halts the schedule and waits for a running tick to finish
func (m *Manager) Stop() {
	<-m.cron.Stop().Done()
	m.cancel()
}

// RunOnce performs a single scheduled refresh. It reports whether a new pair
// was obtained.
func (m *Manager) RunOnce(ctx context.Context) bool {
	if _, err := m.service.Refresh(ctx); err != nil {
		if errors.Is(err, lawcus.ErrNoRefreshToken) {
			m.log.Warn("no refresh token stored, skipping scheduled refresh")
			return false
		}

		m.log.WithError(err).Error("scheduled token refresh failed")
		return false
	}

	m.log.Info("tokens refreshed")
	return true
}
