package round

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "USD 100,000", want: "100000"},
		{in: "$25,000.50", want: "25000.5"},
		{in: "Le 2.5", want: "2.5"},
		{in: "1000000", want: "1000000"},
		{in: "", want: "0"},
		{in: "TBD", want: "0"},
		{in: "1-2", want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAmount(tt.in).String())
		})
	}
}

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name         string
		goal, raised string
		want         float64
	}{
		{name: "quarter", goal: "USD 100,000", raised: "USD 25,000", want: 25},
		{name: "rounded", goal: "3", raised: "1", want: 33.33},
		{name: "over goal clamped", goal: "1000", raised: "5000", want: 100},
		{name: "negative clamped", goal: "1000", raised: "-5", want: 0},
		{name: "zero goal", goal: "0", raised: "100", want: 0},
		{name: "unparseable goal", goal: "a lot", raised: "100", want: 0},
		{name: "nothing raised", goal: "1000", raised: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeProgress(tt.goal, tt.raised))
		})
	}
}

func TestRound_RefreshProgress(t *testing.T) {
	r := Round{FundingGoal: "USD 100,000", RaisedAmount: "USD 25,000", Progress: 99}
	r.RefreshProgress()
	assert.Equal(t, 25.0, r.Progress)
}

func TestNewRound_Validate(t *testing.T) {
	opens := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	closes := opens.AddDate(0, -1, 0)

	tests := []struct {
		name       string
		nr         NewRound
		wantStatus string
		wantFields []string
	}{
		{
			name:       "defaults to draft",
			nr:         NewRound{Name: "Seed", FundingGoal: "USD 50,000"},
			wantStatus: "Draft",
		},
		{
			name:       "status is case-insensitive",
			nr:         NewRound{Name: "Seed", FundingGoal: "USD 50,000", Status: "under review"},
			wantStatus: "Under Review",
		},
		{
			name:       "unknown status",
			nr:         NewRound{Name: "Seed", FundingGoal: "USD 50,000", Status: "Paused"},
			wantFields: []string{"round_status"},
		},
		{
			name:       "missing fields",
			nr:         NewRound{Name: " "},
			wantFields: []string{"name", "funding_goal"},
		},
		{
			name:       "closes before opening",
			nr:         NewRound{Name: "Seed", FundingGoal: "1", OpensAt: &opens, ClosesAt: &closes},
			wantFields: []string{"closes_at"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nr.Validate()
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, tt.nr.Status)
				return
			}
			require.Error(t, err)
			var fields []string
			for _, fe := range err.(validator.ValidationErrors) {
				fields = append(fields, fe.Field())
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestUpdateRound_ValidateKeepsBlankFields(t *testing.T) {
	orig := Round{Name: "Seed", FundingGoal: "USD 100,000", RaisedAmount: "USD 10,000", Status: StatusOpen}
	ur := UpdateRound{RaisedAmount: "USD 40,000"}
	require.NoError(t, ur.Validate(orig))

	r := orig
	ur.apply(&r)
	r.RefreshProgress()
	assert.Equal(t, "Seed", r.Name)
	assert.Equal(t, StatusOpen, r.Status)
	assert.Equal(t, 40.0, r.Progress)
}
