package license

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 7, 1, 8, 30, 0, 0, time.UTC)

func TestNewRecord_Modular(t *testing.T) {
	rec, err := NewRecord(SchemeModular, Request{
		CustomerID: "  TARENJ ",
		StartDate:  "2025-07-30",
		EndDate:    " 2025-09-15",
		Modules:    []Module{"auth", " admin ", "auth"},
	}, DefaultCatalog(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "TARENJ", rec.CustomerID)
	assert.Equal(t, "2025-07-30", rec.StartDate)
	assert.Equal(t, "2025-09-15", rec.EndDate)
	assert.Equal(t, []Module{ModuleAuth, ModuleAdmin}, rec.Modules)
	assert.Empty(t, rec.IssuedAt)
	assert.Empty(t, rec.Signature)
	assert.Equal(t, SchemeModular, rec.Scheme())
}

func TestNewRecord_Legacy(t *testing.T) {
	rec, err := NewRecord(SchemeLegacy, Request{
		CustomerID: "ignored",
		StartDate:  "2025-07-30",
		EndDate:    "2025-09-15",
	}, DefaultCatalog(), fixedNow.In(time.FixedZone("IRST", 3*3600+1800)))
	require.NoError(t, err)

	assert.Empty(t, rec.CustomerID)
	assert.Nil(t, rec.Modules)
	assert.Equal(t, "2025-07-01T08:30:00Z", rec.IssuedAt)
	assert.Equal(t, SchemeLegacy, rec.Scheme())
}

func TestNewRecord_NormalizesCustomerToNFC(t *testing.T) {
	decomposed := "Jose\u0301"
	rec, err := NewRecord(SchemeModular, Request{
		CustomerID: decomposed,
		StartDate:  "2025-01-01",
		EndDate:    "2025-02-01",
		Modules:    []Module{ModuleGPS},
	}, DefaultCatalog(), fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "Jos\u00e9", rec.CustomerID)
}

func TestNewRecord_ValidationOrder(t *testing.T) {
	valid := Request{
		CustomerID: "TARENJ",
		StartDate:  "2025-07-30",
		EndDate:    "2025-09-15",
		Modules:    []Module{ModuleAuth},
	}

	tests := []struct {
		name   string
		scheme Scheme
		mutate func(r *Request)
		rule   Rule
		field  string
	}{
		{
			name:   "missing customer reported before everything else",
			scheme: SchemeModular,
			mutate: func(r *Request) { r.CustomerID = "  "; r.Modules = nil; r.StartDate = "bad" },
			rule:   RuleCustomerRequired,
			field:  "customerId",
		},
		{
			name:   "empty modules reported before dates",
			scheme: SchemeModular,
			mutate: func(r *Request) { r.Modules = []Module{" "}; r.StartDate = "bad" },
			rule:   RuleModulesRequired,
			field:  "modules",
		},
		{
			name:   "unknown module",
			scheme: SchemeModular,
			mutate: func(r *Request) { r.Modules = []Module{ModuleAuth, "teleport"} },
			rule:   RuleUnknownModule,
			field:  "modules",
		},
		{
			name:   "slash separated start date",
			scheme: SchemeModular,
			mutate: func(r *Request) { r.StartDate = "2025/07/30" },
			rule:   RuleDateFormat,
			field:  "startDate",
		},
		{
			name:   "format checked independently of order",
			scheme: SchemeModular,
			mutate: func(r *Request) { r.StartDate = "2025/09/15"; r.EndDate = "2025-07-30" },
			rule:   RuleDateFormat,
			field:  "startDate",
		},
		{
			name:   "bad end date",
			scheme: SchemeModular,
			mutate: func(r *Request) { r.EndDate = "2025-02-30" },
			rule:   RuleDateFormat,
			field:  "endDate",
		},
		{
			name:   "end before start",
			scheme: SchemeModular,
			mutate: func(r *Request) { r.StartDate = "2025-09-15"; r.EndDate = "2025-07-30" },
			rule:   RuleDateOrder,
			field:  "endDate",
		},
		{
			name:   "end equal to start",
			scheme: SchemeModular,
			mutate: func(r *Request) { r.EndDate = r.StartDate },
			rule:   RuleDateOrder,
			field:  "endDate",
		},
		{
			name:   "legacy still checks dates",
			scheme: SchemeLegacy,
			mutate: func(r *Request) { r.CustomerID = ""; r.Modules = nil; r.EndDate = "2025-07-29" },
			rule:   RuleDateOrder,
			field:  "endDate",
		},
		{
			name:   "unknown scheme",
			scheme: Scheme("v9"),
			mutate: func(r *Request) {},
			rule:   RuleUnknownScheme,
			field:  "scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			req.Modules = append([]Module(nil), valid.Modules...)
			tt.mutate(&req)

			_, err := NewRecord(tt.scheme, req, DefaultCatalog(), fixedNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.rule, verr.Rule)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestNewRecord_EmptyCatalogRejectsModules(t *testing.T) {
	_, err := NewRecord(SchemeModular, Request{
		CustomerID: "c",
		StartDate:  "2025-01-01",
		EndDate:    "2025-01-02",
		Modules:    []Module{ModuleAuth},
	}, NewCatalog(nil), fixedNow)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, RuleUnknownModule, verr.Rule)
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("")
	require.NoError(t, err)
	assert.Equal(t, SchemeModular, s)

	s, err = ParseScheme(" Legacy ")
	require.NoError(t, err)
	assert.Equal(t, SchemeLegacy, s)

	_, err = ParseScheme("jwt")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalog(t *testing.T) {
	c := NewCatalog([]Module{"auth", " ", "gps", "auth"})
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []Module{"auth", "gps"}, c.Modules())
	assert.True(t, c.Contains("gps"))
	assert.False(t, c.Contains("admin"))

	var nilCatalog *Catalog
	assert.False(t, nilCatalog.Contains("auth"))
	assert.Zero(t, nilCatalog.Len())

	assert.Equal(t, len(DefaultModules()), DefaultCatalog().Len())
	assert.Equal(t, []Module{"auth", "admin", "gps"}, ParseModules("auth, admin,,gps "))
}
