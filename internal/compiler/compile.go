package compiler

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roach88/yutaicat/internal/catalog"
	"github.com/roach88/yutaicat/internal/normalize"
)

// Source supplies the three raw tables. Each call reads the whole table.
type Source interface {
	ReadCompanies() ([]catalog.RawCompany, error)
	ReadChains() ([]catalog.RawChain, error)
	ReadStores() ([]catalog.RawStore, error)
}

// Options configures a Compiler.
type Options struct {
	// Strict fails the compile when CheckIntegrity reports anything.
	// Otherwise findings are logged and returned in the Report.
	Strict bool

	// Now returns the compile instant. Defaults to time.Now.
	Now func() time.Time

	// Logger receives per-row skip diagnostics at debug level.
	Logger *zap.Logger
}

// Compiler turns raw tables into a catalog snapshot.
type Compiler struct {
	strict bool
	now    func() time.Time
	logger *zap.Logger
}

// New creates a Compiler.
func New(opts Options) *Compiler {
	c := &Compiler{strict: opts.Strict, now: opts.Now, logger: opts.Logger}
	if c.now == nil {
		c.now = time.Now
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// KindStats counts the rows seen for one entity kind.
type KindStats struct {
	Read     int `json:"read"`
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}

// Report summarizes a compile.
type Report struct {
	Companies KindStats `json:"companies"`
	Chains    KindStats `json:"chains"`
	Stores    KindStats `json:"stores"`
	// Findings holds the integrity findings of the compiled catalog.
	Findings []Finding `json:"findings,omitempty"`
}

// Result is the output of a successful compile.
type Result struct {
	Catalog *catalog.Catalog
	Report  Report
}

// Compile reads every table from src and assembles the catalog.
// The version label is the UTC date of the compile instant.
func (c *Compiler) Compile(src Source) (*Result, error) {
	rawChains, err := src.ReadChains()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	rawCompanies, err := src.ReadCompanies()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	rawStores, err := src.ReadStores()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	return c.Assemble(rawCompanies, rawChains, rawStores)
}

// Assemble builds the catalog from already-read tables.
func (c *Compiler) Assemble(rawCompanies []catalog.RawCompany, rawChains []catalog.RawChain, rawStores []catalog.RawStore) (*Result, error) {
	now := c.now()
	var report Report

	chains := make([]catalog.Chain, 0, len(rawChains))
	for i, raw := range rawChains {
		ch, ok := normalize.Chain(raw)
		if !ok {
			c.skip("chain", i, raw.ID)
			report.Chains.Skipped++
			continue
		}
		chains = append(chains, ch)
	}
	report.Chains.Read = len(rawChains)
	report.Chains.Accepted = len(chains)

	membership := DeriveCompanyChains(chains)

	companies := make([]catalog.Company, 0, len(rawCompanies))
	for i, raw := range rawCompanies {
		co, ok := normalize.Company(raw, membership[normalize.Text(raw.ID)])
		if !ok {
			c.skip("company", i, raw.ID)
			report.Companies.Skipped++
			continue
		}
		companies = append(companies, co)
	}
	report.Companies.Read = len(rawCompanies)
	report.Companies.Accepted = len(companies)

	stores := make([]catalog.Store, 0, len(rawStores))
	for i, raw := range rawStores {
		st, ok, err := normalize.Store(raw, now)
		if err != nil {
			return nil, fmt.Errorf("compile: stores row %d: %w", i+1, err)
		}
		if !ok {
			c.skip("store", i, raw.ID)
			report.Stores.Skipped++
			continue
		}
		stores = append(stores, st)
	}
	report.Stores.Read = len(rawStores)
	report.Stores.Accepted = len(stores)

	cat := &catalog.Catalog{
		Version:   catalog.VersionFor(now),
		Companies: companies,
		Chains:    chains,
		Stores:    stores,
	}

	report.Findings = CheckIntegrity(cat)
	if len(report.Findings) > 0 && c.strict {
		return nil, &IntegrityError{Findings: report.Findings}
	}
	for _, f := range report.Findings {
		c.logger.Warn("integrity finding",
			zap.String("code", f.Code),
			zap.String("kind", f.Kind),
			zap.String("id", f.ID),
			zap.String("field", f.Field),
			zap.String("message", f.Message))
	}

	return &Result{Catalog: cat, Report: report}, nil
}

func (c *Compiler) skip(kind string, index int, id string) {
	c.logger.Debug("skipping incomplete row",
		zap.String("kind", kind),
		zap.Int("row", index+1),
		zap.String("id", id))
}
