// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fares

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/world-explorer/internal/httputil"
	"github.com/pdiddy/world-explorer/pkg/types"
)

// DefaultKiwiBaseURL is the Kiwi.com (Skypicker) flight search API root.
const DefaultKiwiBaseURL = "https://api.skypicker.com"

// kiwiDateFormat is the dd/mm/yyyy format the search API expects.
const kiwiDateFormat = "02/01/2006"

// KiwiProvider queries the Kiwi.com flight search API.
type KiwiProvider struct {
	Client *http.Client
	Config types.FaresConfig
}

// Name returns the provider identifier.
func (p *KiwiProvider) Name() string { return "kiwi" }

// Search requests round-trip fares sorted by ascending price.
func (p *KiwiProvider) Search(ctx context.Context, req FareRequest) ([]Fare, error) {
	if req.From == "" || req.To == "" {
		return nil, fmt.Errorf("kiwi: origin and destination are required")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 1
	}
	partner := p.Config.Partner
	if partner == "" {
		partner = "picky"
	}
	base := p.Config.BaseURL
	if base == "" {
		base = DefaultKiwiBaseURL
	}

	out := req.DateOut.Format(kiwiDateFormat)
	back := req.DateBack.Format(kiwiDateFormat)
	params := url.Values{
		"flyFrom":    {req.From},
		"to":         {req.To},
		"dateFrom":   {out},
		"dateTo":     {out},
		"returnFrom": {back},
		"returnTo":   {back},
		"partner":    {partner},
		"sort":       {"price"},
		"asc":        {"1"},
		"limit":      {strconv.Itoa(limit)},
		"curr":       {req.Currency},
		"typeFlight": {"round"},
	}

	reqURL := strings.TrimRight(base, "/") + "/flights?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if p.Config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", p.Config.UserAgent)
	}
	if p.Config.APIKey != "" {
		httpReq.Header.Set("apikey", p.Config.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, httpReq, p.Config.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("kiwi API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Provider: p.Name(), Code: resp.StatusCode}
	}

	var kr kiwiResponse
	if err := json.NewDecoder(resp.Body).Decode(&kr); err != nil {
		return nil, fmt.Errorf("parsing kiwi response: %w", err)
	}

	fares := make([]Fare, 0, len(kr.Data))
	for _, f := range kr.Data {
		price := f.Price
		if converted, ok := f.Conversion[req.Currency]; ok {
			price = converted
		}
		fares = append(fares, Fare{
			Price:    price,
			Currency: req.Currency,
			CityFrom: f.CityFrom,
			CityTo:   f.CityTo,
			DeepLink: f.DeepLink,
		})
	}
	return fares, nil
}

// Kiwi API JSON structures.
type kiwiResponse struct {
	Currency string       `json:"currency"`
	Data     []kiwiFlight `json:"data"`
}

type kiwiFlight struct {
	Price      float64            `json:"price"`
	Conversion map[string]float64 `json:"conversion"`
	CityFrom   string             `json:"cityFrom"`
	CityTo     string             `json:"cityTo"`
	DeepLink   string             `json:"deep_link"`
}
