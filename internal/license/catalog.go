package license

import "strings"

// Module is the name of a licensable product module.
type Module string

const (
	ModuleAuth          Module = "auth"
	ModuleAdmin         Module = "admin"
	ModulePersonalSpace Module = "personal-space"
	ModuleGPS           Module = "gps"
	ModuleStations      Module = "stations"
	ModuleSubscription  Module = "subscription"
	ModuleTicket        Module = "ticket"
	ModuleUser          Module = "user"
	ModulePPK           Module = "ppk"
	ModuleSPP           Module = "spp"
	ModuleStatic        Module = "static"
	ModuleCalendar      Module = "calendar"
	ModuleION           Module = "ion"
	ModulePPP           Module = "ppp"
	ModuleLGPS2         Module = "lgps2"
	ModuleCaptcha       Module = "capcha"
	ModuleEmail         Module = "email"
	ModuleDatabase      Module = "database"
)

// DefaultModules returns the built-in module catalog in display order.
func DefaultModules() []Module {
	return []Module{
		ModuleAuth,
		ModuleAdmin,
		ModulePersonalSpace,
		ModuleGPS,
		ModuleStations,
		ModuleSubscription,
		ModuleTicket,
		ModuleUser,
		ModulePPK,
		ModuleSPP,
		ModuleStatic,
		ModuleCalendar,
		ModuleION,
		ModulePPP,
		ModuleLGPS2,
		ModuleCaptcha,
		ModuleEmail,
		ModuleDatabase,
	}
}

// Catalog is the fixed set of modules a license may enable.
// The zero value is an empty catalog that rejects every module.
type Catalog struct {
	modules []Module
	index   map[Module]struct{}
}

// NewCatalog builds a catalog from module names. Blank and duplicate names are dropped.
func NewCatalog(modules []Module) *Catalog {
	c := &Catalog{index: make(map[Module]struct{}, len(modules))}
	for _, m := range modules {
		m = Module(strings.TrimSpace(string(m)))
		if m == "" {
			continue
		}
		if _, ok := c.index[m]; ok {
			continue
		}
		c.index[m] = struct{}{}
		c.modules = append(c.modules, m)
	}
	return c
}

// DefaultCatalog returns a catalog holding DefaultModules.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultModules())
}

// Contains reports whether m is part of the catalog.
func (c *Catalog) Contains(m Module) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[m]
	return ok
}

// Modules returns a copy of the catalog in its configured order.
func (c *Catalog) Modules() []Module {
	if c == nil {
		return nil
	}
	out := make([]Module, len(c.modules))
	copy(out, c.modules)
	return out
}

// Len returns the number of modules in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.modules)
}

// ParseModules splits a comma-separated module list, trimming blanks.
func ParseModules(list string) []Module {
	var out []Module
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, Module(part))
	}
	return out
}
