// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hashicorp/go-multierror"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"

	"github.com/pfctl/pfctl/internal/filter"
	"github.com/pfctl/pfctl/internal/log"
)

// Scanner evaluates filters against catalog entries in parallel. Compiled
// filters are cached by text, so repeated scans with the same filter parse
// once. The cache only pays off for callers that keep one Scanner across many
// scans; the scan command builds a Scanner per run and never hits it. A
// Scanner is safe for concurrent use.
type Scanner struct {
	workers int
	lenient bool
	filters *xsync.MapOf[string, *filter.Filter]
}

// Option configures a Scanner.
type Option func(*Scanner)

// Workers bounds the number of entries evaluated at once. Values below one
// mean runtime.NumCPU().
func Workers(n int) Option {
	return func(s *Scanner) {
		if n < 1 {
			n = runtime.NumCPU()
		}
		s.workers = n
	}
}

// Lenient makes entries missing a referenced property match.
func Lenient(on bool) Option {
	return func(s *Scanner) { s.lenient = on }
}

// NewScanner returns a Scanner with the given options applied.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		workers: runtime.NumCPU(),
		filters: xsync.NewMapOf[string, *filter.Filter](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Filter returns the compiled filter for text, creating and caching it on
// first use. Invalid filters are not cached.
func (s *Scanner) Filter(text string) (*filter.Filter, error) {
	if f, ok := s.filters.Load(text); ok {
		log.Tracef("filter cache hit: %q", text)
		return f, nil
	}

	f, err := filter.Create(text)
	if err != nil {
		return nil, err
	}
	actual, _ := s.filters.LoadOrStore(text, f)
	return actual, nil
}

// Cached reports how many compiled filters are held.
func (s *Scanner) Cached() int {
	return s.filters.Size()
}

// Result holds the outcome of a scan. Matches keep catalog order. Entries
// whose evaluation failed do not match and are reported in Errors.
type Result struct {
	Matches []Entry
	Scanned int
	Errors  error
}

// Scan evaluates text against every entry of cat. It stops early, returning
// the context error, when ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, cat *Catalog, text string) (*Result, error) {
	f, err := s.Filter(text)
	if err != nil {
		return nil, err
	}

	matched := make([]bool, len(cat.Entries))
	failures := make([]error, len(cat.Entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range cat.Entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ok, err := f.IsValid(cat.Entries[i].Props, s.lenient)
			if err != nil {
				failures[i] = fmt.Errorf("entry %s: %w", cat.Entries[i].ID, err)
				return nil
			}
			matched[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Scanned: len(cat.Entries)}
	var errs *multierror.Error
	for i, e := range cat.Entries {
		if failures[i] != nil {
			errs = multierror.Append(errs, failures[i])
			continue
		}
		if matched[i] {
			res.Matches = append(res.Matches, e)
		}
	}
	res.Errors = errs.ErrorOrNil()

	log.Debugf("scan done: filter=%q scanned=%d matched=%d", f.Text(), res.Scanned, len(res.Matches))
	return res, nil
}
