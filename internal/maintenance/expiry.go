// Package maintenance runs periodic jobs over the issuance ledger.
package maintenance

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MacJediWizard/licensemaker/internal/ledger"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultExpirySchedule runs the expiry scan daily at 06:00 UTC.
const DefaultExpirySchedule = "0 6 * * *"

// ExpiryStore defines the ledger queries the expiry watch needs.
type ExpiryStore interface {
	ListExpiring(ctx context.Context, from, to time.Time) ([]*ledger.Entry, error)
}

// ExpiryGauge receives the number of expiring licenses after each scan.
type ExpiryGauge interface {
	SetExpiring(windowDays, count int)
}

// ExpiryReport is the result of one scan.
type ExpiryReport struct {
	From    time.Time
	To      time.Time
	Entries []*ledger.Entry
}

// ExpiryScheduler periodically reports licenses that are about to expire.
type ExpiryScheduler struct {
	store       ExpiryStore
	gauge       ExpiryGauge
	warningDays int
	schedule    string
	now         func() time.Time
	cron        *cron.Cron
	logger      zerolog.Logger
	mu          sync.Mutex
	running     bool
}

// NewExpiryScheduler creates a new expiry scheduler. gauge may be nil.
func NewExpiryScheduler(store ExpiryStore, gauge ExpiryGauge, warningDays int, logger zerolog.Logger) *ExpiryScheduler {
	return &ExpiryScheduler{
		store:       store,
		gauge:       gauge,
		warningDays: warningDays,
		schedule:    DefaultExpirySchedule,
		now:         time.Now,
		cron:        cron.New(cron.WithLocation(time.UTC)),
		logger:      logger.With().Str("component", "expiry").Logger(),
	}
}

// Start begins the daily expiry scan.
func (s *ExpiryScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("expiry scheduler already running")
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		_, _ = s.runScan(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Int("warning_days", s.warningDays).
		Str("schedule", s.schedule).
		Msg("expiry scheduler started")

	return nil
}

// Stop stops the scheduler gracefully.
func (s *ExpiryScheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}

	s.running = false
	s.logger.Info().Msg("stopping expiry scheduler")
	return s.cron.Stop()
}

// RunNow performs a scan immediately.
func (s *ExpiryScheduler) RunNow(ctx context.Context) (*ExpiryReport, error) {
	return s.runScan(ctx)
}

func (s *ExpiryScheduler) runScan(ctx context.Context) (*ExpiryReport, error) {
	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, s.warningDays)

	entries, err := s.store.ListExpiring(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("expiry scan failed")
		return nil, err
	}

	for _, e := range entries {
		s.logger.Warn().
			Str("license_id", e.ID.String()).
			Str("customer_id", e.CustomerID).
			Str("end_date", e.EndDate).
			Msg("license expiring soon")
	}

	if s.gauge != nil {
		s.gauge.SetExpiring(s.warningDays, len(entries))
	}

	s.logger.Info().
		Int("expiring", len(entries)).
		Int("warning_days", s.warningDays).
		Msg("expiry scan completed")

	return &ExpiryReport{From: from, To: to, Entries: entries}, nil
}
