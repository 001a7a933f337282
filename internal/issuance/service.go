// Package issuance ties the license issuer to the ledger, metrics and logging.
package issuance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MacJediWizard/licensemaker/internal/ledger"
	"github.com/MacJediWizard/licensemaker/internal/license"
	"github.com/MacJediWizard/licensemaker/internal/metrics"
	"github.com/rs/zerolog"
)

// Store records successful issuances.
type Store interface {
	Record(ctx context.Context, entry *ledger.Entry) error
	List(ctx context.Context, opts ledger.ListOptions) ([]*ledger.Entry, error)
}

// ErrNoLedger is returned by History when the service runs without a ledger.
var ErrNoLedger = errors.New("ledger not configured")

// Error kinds used for the failure metric and log fields.
const (
	KindValidation = "validation"
	KindKeyLoad    = "key_load"
	KindSigner     = "signer"
	KindCodec      = "codec"
	KindLedger     = "ledger"
	KindCanceled   = "canceled"
	KindUnknown    = "unknown"
)

// Service issues licenses and records them.
type Service struct {
	issuer  *license.Issuer
	store   Store
	metrics *metrics.PrometheusMetrics
	logger  zerolog.Logger
}

// NewService creates a Service. store and m may be nil.
func NewService(issuer *license.Issuer, store Store, m *metrics.PrometheusMetrics, logger zerolog.Logger) *Service {
	return &Service{
		issuer:  issuer,
		store:   store,
		metrics: m,
		logger:  logger.With().Str("component", "issuance").Logger(),
	}
}

// Issuer returns the underlying issuer.
func (s *Service) Issuer() *license.Issuer {
	return s.issuer
}

// Issue produces a license for req and records it in the ledger. Nothing is
// recorded when issuance fails. A ledger failure is returned as an error
// even though the license was produced.
func (s *Service) Issue(ctx context.Context, req license.Request) (*license.Issued, error) {
	if err := ctx.Err(); err != nil {
		s.metrics.RecordFailure(KindCanceled)
		return nil, err
	}

	start := time.Now()
	issued, err := s.issuer.Issue(req)
	if err != nil {
		kind := ErrorKind(err)
		s.metrics.RecordFailure(kind)
		event := s.logger.Warn()
		if kind != KindValidation {
			event = s.logger.Error()
		}
		event.Err(err).
			Str("kind", kind).
			Str("scheme", string(s.issuer.Scheme())).
			Msg("license issuance failed")
		return nil, err
	}

	if s.store != nil {
		if err := s.store.Record(ctx, ledger.EntryFromIssued(issued)); err != nil {
			s.metrics.RecordFailure(KindLedger)
			s.logger.Error().Err(err).
				Str("license_id", issued.ID.String()).
				Msg("failed to record issued license")
			return nil, fmt.Errorf("record issuance: %w", err)
		}
	}

	elapsed := time.Since(start)
	s.metrics.RecordIssued(string(issued.Scheme), string(issued.Algorithm), elapsed.Seconds())

	s.logger.Info().
		Str("license_id", issued.ID.String()).
		Str("scheme", string(issued.Scheme)).
		Str("algorithm", string(issued.Algorithm)).
		Str("customer_id", issued.Record.CustomerID).
		Str("start_date", issued.Record.StartDate).
		Str("end_date", issued.Record.EndDate).
		Int("modules", len(issued.Record.Modules)).
		Str("fingerprint", issued.Fingerprint()).
		Dur("duration", elapsed).
		Msg("license issued")

	return issued, nil
}

// Decode parses a license blob without verifying it.
func (s *Service) Decode(blob string) (license.Record, error) {
	rec, err := license.Decode(blob)
	s.metrics.RecordDecode(err == nil)
	if err != nil {
		s.logger.Debug().Err(err).Msg("license decode failed")
		return license.Record{}, err
	}
	return rec, nil
}

// History lists recorded issuances, newest first.
func (s *Service) History(ctx context.Context, opts ledger.ListOptions) ([]*ledger.Entry, error) {
	if s.store == nil {
		return nil, ErrNoLedger
	}
	entries, err := s.store.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list issuances: %w", err)
	}
	return entries, nil
}

// ErrorKind classifies an issuance error.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, license.ErrValidation):
		return KindValidation
	case errors.Is(err, license.ErrKeyLoad):
		return KindKeyLoad
	case errors.Is(err, license.ErrSigner):
		return KindSigner
	case errors.Is(err, license.ErrCodec):
		return KindCodec
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}
