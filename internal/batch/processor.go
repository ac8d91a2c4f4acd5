// Package batch handles batch country lookups from stdin.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/hightemp/countrykit/internal/config"
	"github.com/hightemp/countrykit/internal/countries"
	"github.com/hightemp/countrykit/internal/output"
)

// Processor resolves country identifiers: alpha-2 codes, alpha-3 codes or
// locales.
type Processor struct {
	catalog     *countries.Catalog
	concurrency int
	logger      *slog.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithConcurrency sets the number of concurrent lookups, capped at
// config.MaxConcurrency.
func WithConcurrency(n int) Option {
	return func(p *Processor) {
		if n < 1 {
			n = 1
		}
		p.concurrency = min(n, config.MaxConcurrency)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// NewProcessor creates a new batch processor.
func NewProcessor(catalog *countries.Catalog, opts ...Option) *Processor {
	p := &Processor{
		catalog:     catalog,
		concurrency: config.DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process resolves the identifiers read from r. With a concurrency of one
// text results are streamed as each line arrives; otherwise lookups run
// concurrently once r is exhausted.
func (p *Processor) Process(ctx context.Context, r io.Reader, w io.Writer, jsonOutput bool) error {
	if p.concurrency <= 1 {
		return p.ProcessInput(ctx, r, w, jsonOutput)
	}
	return p.ProcessInputConcurrent(ctx, r, w, jsonOutput)
}

// ProcessInput reads identifiers from r, one per line, and streams results
// to w.
func (p *Processor) ProcessInput(ctx context.Context, r io.Reader, w io.Writer, jsonOutput bool) error {
	scanner := bufio.NewScanner(r)
	var results []*output.LookupResult

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result := p.Resolve(line)
		if jsonOutput {
			results = append(results, result)
			continue
		}
		fmt.Fprintln(w, result.FormatText())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if jsonOutput {
		return writeJSON(w, results)
	}
	return nil
}

// ProcessInputConcurrent is ProcessInput with concurrent lookups. Results
// keep the input order.
func (p *Processor) ProcessInputConcurrent(ctx context.Context, r io.Reader, w io.Writer, jsonOutput bool) error {
	scanner := bufio.NewScanner(r)
	var lines []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	results := make([]*output.LookupResult, len(lines))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.concurrency)

	for i, line := range lines {
		wg.Add(1)
		go func(idx int, id string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results[idx] = &output.LookupResult{Input: id, Error: ctx.Err().Error()}
				return
			}
			defer func() { <-sem }()
			results[idx] = p.Resolve(id)
		}(i, line)
	}

	wg.Wait()
	p.logger.Debug("batch resolved", "identifiers", len(lines), "concurrency", p.concurrency)

	if err := ctx.Err(); err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(w, results)
	}
	for _, result := range results {
		fmt.Fprintln(w, result.FormatText())
	}
	return nil
}

// Resolve looks up one identifier.
func (p *Processor) Resolve(id string) *output.LookupResult {
	result := &output.LookupResult{Input: id}

	c := p.catalog.FindAny(id)
	result.Code = c.Alpha2Code
	if c.IsUnknown() {
		result.Error = "unknown country"
		return result
	}
	result.Alpha3 = c.Alpha3Code
	result.Name = c.LocalizedName
	return result
}

func writeJSON(w io.Writer, results []*output.LookupResult) error {
	if results == nil {
		results = []*output.LookupResult{}
	}
	batch := &output.BatchResult{Results: results}
	jsonStr, err := batch.FormatJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, jsonStr)
	return err
}
