// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pdiddy/world-explorer/pkg/types"
)

const defaultConcurrency = 16

// SearchOutput holds the ranked results of one query and lookup statistics.
type SearchOutput struct {
	Origin     types.City
	Budget     float64
	Currency   string
	Results    []types.SearchResult
	Candidates int
	CacheHits  int
	Lookups    int
	Transient  int
}

// Search runs the engine for every city except origin and returns the cities
// affording more than cfg.MinDays days, longest stay first. Ties are broken
// by population. Search returns only after every computation has settled.
func Search(ctx context.Context, engine *Engine, cities []types.City, origin types.City, budget float64, cfg types.SearchConfig) SearchOutput {
	engine.Metrics.Search()

	limit := cfg.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	type cityResult struct {
		res types.SearchResult
		tr  trace
	}

	ch := make(chan cityResult, len(cities))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	candidates := 0
	for _, c := range cities {
		if c.ID == origin.ID {
			continue
		}
		candidates++
		wg.Add(1)
		go func(c types.City) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			res, tr := engine.compute(ctx, c, origin, budget)
			ch <- cityResult{res: res, tr: tr}
		}(c)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	out := SearchOutput{Origin: origin, Budget: budget, Currency: engine.Currency, Candidates: candidates}
	for cr := range ch {
		if cr.tr.cacheHit {
			out.CacheHits++
		}
		if cr.tr.lookedUp {
			out.Lookups++
		}
		if cr.tr.transient {
			out.Transient++
		}
		if cr.res.Days > cfg.MinDays {
			out.Results = append(out.Results, cr.res)
		}
	}

	Rank(out.Results)
	if cfg.MaxResults > 0 && len(out.Results) > cfg.MaxResults {
		out.Results = out.Results[:cfg.MaxResults]
	}

	engine.Log.Debug().
		Str("from", origin.Name).
		Float64("budget", budget).
		Int("candidates", candidates).
		Int("results", len(out.Results)).
		Int("lookups", out.Lookups).
		Int("transient", out.Transient).
		Msg("search complete")
	return out
}

// Rank orders results by days descending, then population descending.
func Rank(results []types.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Days != results[j].Days {
			return results[i].Days > results[j].Days
		}
		return results[i].City.Population > results[j].City.Population
	})
}

// FormatTable writes results as a human-readable table to w.
func FormatTable(out SearchOutput, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No affordable destinations found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-28s  %-8s  %-4s  %10s  %10s  %10s\n",
		"Rank", "City", "Country", "Days", "Flight", "Per day", "Total")
	fmt.Fprintln(w, strings.Repeat("-", 86))

	for i, r := range out.Results {
		flight := 0.0
		if r.Flight != nil {
			flight = r.Flight.Price
		}
		fmt.Fprintf(w, "%-4d  %-28s  %-8s  %-4d  %10.2f  %10d  %10.2f\n",
			i+1, truncate(r.City.Name, 28), r.City.Country, r.Days,
			flight, r.City.EffectiveDailyCost(), r.TotalExpenses)
	}

	fmt.Fprintf(w, "\n%d destinations from %s", len(out.Results), out.Origin.Name)
	if out.Currency != "" {
		fmt.Fprintf(w, " (amounts in %s)", out.Currency)
	}
	fmt.Fprintf(w, ", %d fare lookups", out.Lookups)
	if out.Transient > 0 {
		fmt.Fprintf(w, ", %d failed", out.Transient)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes results as indented JSON to w.
func FormatJSON(out SearchOutput, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	results := out.Results
	if results == nil {
		results = []types.SearchResult{}
	}
	return enc.Encode(results)
}

// truncate shortens s to max runes, never splitting a multi-byte character.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
