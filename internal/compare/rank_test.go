package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"wayfare.openmobility.org/internal/models"
)

func rankedNames(ranked []models.RankedCandidate) []string {
	names := make([]string, 0, len(ranked))
	for _, r := range ranked {
		names = append(names, r.Candidate.Name)
	}
	return names
}

func TestRankByPrice(t *testing.T) {
	candidates := []models.ServiceCandidate{
		{Name: "RideCo", Criteria: models.ServiceCriteria{Price: 12.50}},
		{Name: "Walk", Criteria: models.ServiceCriteria{Price: 0}},
		{Name: "City Bus", Criteria: models.ServiceCriteria{Price: 1.25}},
	}

	ranked := Rank(candidates, models.SortPrice, models.SortAscending, models.ScoreWeights{})
	assert.Equal(t, []string{"Walk", "City Bus", "RideCo"}, rankedNames(ranked))
	assert.Equal(t, 0.0, ranked[0].SortKey)
	assert.Equal(t, 12.50, ranked[2].SortKey)
}

func TestRankByNameLexicographic(t *testing.T) {
	candidates := []models.ServiceCandidate{
		{Name: "Walk"},
		{Name: "City Bus"},
		{Name: "RideCo"},
	}

	ranked := Rank(candidates, models.SortName, models.SortAscending, models.ScoreWeights{})
	assert.Equal(t, []string{"City Bus", "RideCo", "Walk"}, rankedNames(ranked))
	for _, r := range ranked {
		assert.Equal(t, 0.0, r.SortKey, "name ordering carries a zero key")
	}
}

func TestRankStableOnTies(t *testing.T) {
	// All candidates share the same price; the filtered-set order must
	// survive the sort.
	candidates := []models.ServiceCandidate{
		{Name: "A", Criteria: models.ServiceCriteria{Price: 5}},
		{Name: "B", Criteria: models.ServiceCriteria{Price: 5}},
		{Name: "C", Criteria: models.ServiceCriteria{Price: 5}},
	}

	ranked := Rank(candidates, models.SortPrice, models.SortAscending, models.ScoreWeights{})
	assert.Equal(t, []string{"A", "B", "C"}, rankedNames(ranked))
}

func TestRankDescendingIsExactReversal(t *testing.T) {
	candidates := []models.ServiceCandidate{
		{Name: "RideCo", Criteria: models.ServiceCriteria{TimeMinutes: 8}},
		{Name: "Walk", Criteria: models.ServiceCriteria{TimeMinutes: 40}},
		{Name: "City Bus", Criteria: models.ServiceCriteria{TimeMinutes: 25}},
		{Name: "Bike", Criteria: models.ServiceCriteria{TimeMinutes: 25}},
	}

	asc := Rank(candidates, models.SortTime, models.SortAscending, models.ScoreWeights{})
	desc := Rank(candidates, models.SortTime, models.SortDescending, models.ScoreWeights{})

	assert.Equal(t, len(asc), len(desc))
	for i := range asc {
		mirrored := desc[len(desc)-1-i]
		assert.Equal(t, asc[i].Candidate.Name, mirrored.Candidate.Name)
		assert.Equal(t, asc[i].SortKey, mirrored.SortKey, "direction toggling never recomputes keys")
	}
}

func TestRankByCompositeScore(t *testing.T) {
	weights := models.ScoreWeights{Price: 1, Safety: 2}

	candidates := []models.ServiceCandidate{
		{Name: "Cheap but unsafe", Criteria: models.ServiceCriteria{Price: 1, Safety: 1}},
		{Name: "Pricey but safe", Criteria: models.ServiceCriteria{Price: 5, Safety: 5}},
	}

	ranked := Rank(candidates, models.SortScore, models.SortDescending, weights)

	// 2*5 - 5 = 5 beats 2*1 - 1 = 1.
	assert.Equal(t, "Pricey but safe", ranked[0].Candidate.Name)
	assert.Equal(t, 5.0, ranked[0].SortKey)
	assert.Equal(t, 1.0, ranked[1].SortKey)
}

func TestRankByBooleanCriteria(t *testing.T) {
	candidates := []models.ServiceCandidate{
		{Name: "RideCo"},
		{Name: "City Bus", Criteria: models.ServiceCriteria{PubliclyOperated: true}},
	}

	ranked := Rank(candidates, models.SortPubliclyOperated, models.SortDescending, models.ScoreWeights{})
	assert.Equal(t, "City Bus", ranked[0].Candidate.Name)
	assert.Equal(t, 1.0, ranked[0].SortKey)
}
