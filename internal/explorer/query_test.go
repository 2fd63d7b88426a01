// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		line       string
		wantName   string
		wantBudget float64
		wantErr    bool
	}{
		{line: "Berlin;300", wantName: "Berlin", wantBudget: 300},
		{line: "  New York ; 1250.50 ", wantName: "New York", wantBudget: 1250.5},
		{line: "Paris;0", wantName: "Paris", wantBudget: 0},
		{line: "Berlin", wantErr: true},
		{line: ";300", wantErr: true},
		{line: "Berlin;", wantErr: true},
		{line: "Berlin;lots", wantErr: true},
		{line: "Berlin;-5", wantErr: true},
		{line: "Berlin;NaN", wantErr: true},
		{line: "Berlin;Inf", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			name, budget, err := ParseQuery(tt.line)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidQuery)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.InDelta(t, tt.wantBudget, budget, 1e-9)
		})
	}
}
