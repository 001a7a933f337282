// Package ledger keeps a local record of every license that was issued.
package ledger

import (
	"errors"
	"time"

	"github.com/MacJediWizard/licensemaker/internal/license"
	"github.com/google/uuid"
)

// ErrEntryNotFound is returned when no ledger entry matches the given ID.
var ErrEntryNotFound = errors.New("ledger entry not found")

// Entry describes one issued license. The license blob itself is not kept;
// Fingerprint identifies it.
type Entry struct {
	ID          uuid.UUID         `json:"id"`
	Scheme      license.Scheme    `json:"scheme"`
	Algorithm   license.Algorithm `json:"algorithm"`
	CustomerID  string            `json:"customer_id,omitempty"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Modules     []license.Module  `json:"modules,omitempty"`
	Fingerprint string            `json:"fingerprint"`
	IssuedAt    time.Time         `json:"issued_at"`
}

// EntryFromIssued builds the ledger entry for a successful issuance.
func EntryFromIssued(issued *license.Issued) *Entry {
	return &Entry{
		ID:          issued.ID,
		Scheme:      issued.Scheme,
		Algorithm:   issued.Algorithm,
		CustomerID:  issued.Record.CustomerID,
		StartDate:   issued.Record.StartDate,
		EndDate:     issued.Record.EndDate,
		Modules:     append([]license.Module(nil), issued.Record.Modules...),
		Fingerprint: issued.Fingerprint(),
		IssuedAt:    issued.CreatedAt,
	}
}

// ListOptions filters List results.
type ListOptions struct {
	// CustomerID restricts results to one customer when set.
	CustomerID string
	// Limit caps the number of entries; zero means DefaultListLimit.
	Limit int
}

// DefaultListLimit is used when ListOptions.Limit is zero.
const DefaultListLimit = 100
