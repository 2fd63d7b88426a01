// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explorer

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/world-explorer/pkg/types"
)

// ResultFile is the on-disk record of one query and its ranked results, so
// a search can be reviewed later without repeating fare lookups.
type ResultFile struct {
	Query   QueryParams          `yaml:"query"`
	Results []types.SearchResult `yaml:"results"`
	Summary ResultSummary        `yaml:"summary"`
}

// QueryParams stores the query in a serializable form.
type QueryParams struct {
	From     string  `yaml:"from"`
	Budget   float64 `yaml:"budget"`
	Currency string  `yaml:"currency,omitempty"`
	DateOut  string  `yaml:"date_out,omitempty"`
	DateBack string  `yaml:"date_back,omitempty"`
}

// ResultSummary stores lookup statistics and a timestamp.
type ResultSummary struct {
	Total      int       `yaml:"total"`
	Candidates int       `yaml:"candidates"`
	CacheHits  int       `yaml:"cache_hits"`
	Lookups    int       `yaml:"lookups"`
	Transient  int       `yaml:"transient"`
	Timestamp  time.Time `yaml:"timestamp"`
}

const dateFmt = "2006-01-02"

// WriteResultFile saves a search and its results to a YAML file.
func WriteResultFile(path string, out SearchOutput, dateOut, dateBack time.Time) error {
	rf := ResultFile{
		Query: QueryParams{
			From:     out.Origin.Name,
			Budget:   out.Budget,
			Currency: out.Currency,
		},
		Results: out.Results,
		Summary: ResultSummary{
			Total:      len(out.Results),
			Candidates: out.Candidates,
			CacheHits:  out.CacheHits,
			Lookups:    out.Lookups,
			Transient:  out.Transient,
			Timestamp:  time.Now(),
		},
	}
	if !dateOut.IsZero() {
		rf.Query.DateOut = dateOut.Format(dateFmt)
	}
	if !dateBack.IsZero() {
		rf.Query.DateBack = dateBack.Format(dateFmt)
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}

// Output rebuilds a SearchOutput for display.
func (rf *ResultFile) Output() SearchOutput {
	return SearchOutput{
		Origin:     types.City{Name: rf.Query.From},
		Budget:     rf.Query.Budget,
		Currency:   rf.Query.Currency,
		Results:    rf.Results,
		Candidates: rf.Summary.Candidates,
		CacheHits:  rf.Summary.CacheHits,
		Lookups:    rf.Summary.Lookups,
		Transient:  rf.Summary.Transient,
	}
}
