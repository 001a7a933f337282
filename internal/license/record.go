// Package license builds signed, offline-verifiable license documents.
//
// A license is a Record serialized in a fixed canonical layout, signed by a
// Signer, prefixed with random padding and finally wrapped as Base64 JSON.
package license

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

const (
	// DateLayout is the layout of startDate and endDate.
	DateLayout = "2006-01-02"
	// IssuedAtLayout is the layout of the legacy issuedAt timestamp.
	IssuedAtLayout = "2006-01-02T15:04:05Z"
)

// Scheme selects which fields a license carries.
type Scheme string

const (
	// SchemeLegacy is the earliest layout: startDate, endDate, issuedAt.
	SchemeLegacy Scheme = "legacy"
	// SchemeModular is the current layout: customerId, startDate, endDate, modules.
	SchemeModular Scheme = "modular"
)

// ValidSchemes returns all recognized schemes.
func ValidSchemes() []Scheme {
	return []Scheme{SchemeLegacy, SchemeModular}
}

// IsValid checks if the scheme is a recognized value.
func (s Scheme) IsValid() bool {
	for _, valid := range ValidSchemes() {
		if s == valid {
			return true
		}
	}
	return false
}

// ParseScheme parses a scheme name. An empty name selects SchemeModular.
func ParseScheme(name string) (Scheme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return SchemeModular, nil
	}
	s := Scheme(name)
	if !s.IsValid() {
		return "", invalid(RuleUnknownScheme, "scheme", "unknown scheme %q", name)
	}
	return s, nil
}

// Request carries the raw issuance inputs as collected from a form, flags or JSON.
type Request struct {
	CustomerID string   `json:"customerId"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	Modules    []Module `json:"modules"`
}

// Record is the license payload. Signature is empty until the record is signed,
// and a signed record must be re-issued rather than edited.
type Record struct {
	CustomerID string
	StartDate  string
	EndDate    string
	Modules    []Module
	IssuedAt   string
	Signature  string
}

// Scheme infers the layout a record was built with.
func (r Record) Scheme() Scheme {
	if r.IssuedAt != "" && r.CustomerID == "" && len(r.Modules) == 0 {
		return SchemeLegacy
	}
	return SchemeModular
}

// ModuleNames returns the modules as plain strings.
func (r Record) ModuleNames() []string {
	out := make([]string, len(r.Modules))
	for i, m := range r.Modules {
		out[i] = string(m)
	}
	return out
}

// Validity returns the parsed start and end dates.
func (r Record) Validity() (start, end time.Time, err error) {
	start, err = time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, invalid(RuleDateFormat, "startDate", "%q is not a YYYY-MM-DD date", r.StartDate)
	}
	end, err = time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, invalid(RuleDateFormat, "endDate", "%q is not a YYYY-MM-DD date", r.EndDate)
	}
	return start, end, nil
}

// withSignature returns a copy of r carrying sig.
func (r Record) withSignature(sig string) Record {
	out := r
	out.Modules = append([]Module(nil), r.Modules...)
	out.Signature = sig
	return out
}

// NewRecord validates req against scheme and catalog and returns an unsigned
// record. Rules are checked in a fixed order and the first failure is returned
// as a *ValidationError. now stamps issuedAt for the legacy scheme; customer and
// module inputs are ignored by that scheme.
func NewRecord(scheme Scheme, req Request, catalog *Catalog, now time.Time) (Record, error) {
	if !scheme.IsValid() {
		return Record{}, invalid(RuleUnknownScheme, "scheme", "unknown scheme %q", scheme)
	}

	var rec Record
	if scheme == SchemeModular {
		customer := norm.NFC.String(strings.TrimSpace(req.CustomerID))
		if customer == "" {
			return Record{}, invalid(RuleCustomerRequired, "customerId", "customer id is required")
		}

		modules, err := selectModules(req.Modules, catalog)
		if err != nil {
			return Record{}, err
		}

		rec.CustomerID = customer
		rec.Modules = modules
	}

	rec.StartDate = strings.TrimSpace(req.StartDate)
	rec.EndDate = strings.TrimSpace(req.EndDate)

	start, end, err := rec.Validity()
	if err != nil {
		return Record{}, err
	}
	if !end.After(start) {
		return Record{}, invalid(RuleDateOrder, "endDate", "end date %s must be after start date %s", rec.EndDate, rec.StartDate)
	}

	if scheme == SchemeLegacy {
		rec.IssuedAt = now.UTC().Format(IssuedAtLayout)
	}

	return rec, nil
}

// selectModules trims the selection, drops repeats and checks catalog membership.
func selectModules(selected []Module, catalog *Catalog) ([]Module, error) {
	var out []Module
	seen := make(map[Module]struct{}, len(selected))
	for _, m := range selected {
		m = Module(strings.TrimSpace(string(m)))
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}

	if len(out) == 0 {
		return nil, invalid(RuleModulesRequired, "modules", "at least one module must be selected")
	}

	for _, m := range out {
		if !catalog.Contains(m) {
			return nil, invalid(RuleUnknownModule, "modules", "unknown module %q", m)
		}
	}

	return out, nil
}
