package compare

import (
	"sort"

	"wayfare.openmobility.org/internal/models"
)

// Rank orders the filtered candidate set by the given criterion. Sort keys
// are computed once per candidate; the sort is stable, so candidates with
// equal keys keep their filtered-set order. A descending ranking is the exact
// reversal of the ascending one, with no key recomputation.
func Rank(candidates []models.ServiceCandidate, criterion models.SortCriterion,
	direction models.SortDirection, weights models.ScoreWeights) []models.RankedCandidate {

	ranked := make([]models.RankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, models.RankedCandidate{
			Candidate: c,
			SortKey:   sortKey(c, criterion, weights),
		})
	}

	if criterion == models.SortName {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Candidate.Name < ranked[j].Candidate.Name
		})
	} else {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].SortKey < ranked[j].SortKey
		})
	}

	if direction == models.SortDescending {
		reverse(ranked)
	}
	return ranked
}

// sortKey maps a candidate to its numeric key for the given criterion. Name
// ordering is lexicographic and carries a zero key.
func sortKey(c models.ServiceCandidate, criterion models.SortCriterion, weights models.ScoreWeights) float64 {
	switch criterion {
	case models.SortPrice:
		return c.Criteria.Price
	case models.SortTime:
		return float64(c.Criteria.TimeMinutes)
	case models.SortExperience:
		return c.Criteria.ExperienceRating
	case models.SortPubliclyOperated:
		return boolKey(c.Criteria.PubliclyOperated)
	case models.SortSmallBusiness:
		return boolKey(c.Criteria.SmallBusiness)
	case models.SortSafety:
		return c.Criteria.Safety
	case models.SortCarbonEmissions:
		return float64(c.Criteria.CarbonEmissions)
	case models.SortCaloriesBurned:
		return float64(c.Criteria.CaloriesBurned)
	case models.SortScore:
		return compositeScore(c.Criteria, weights)
	}
	return 0
}

// compositeScore combines the weighted criteria into a single key. Benefit
// criteria add, cost criteria subtract, so a higher score is a better option
// and descending is the natural direction for score ordering.
func compositeScore(criteria models.ServiceCriteria, weights models.ScoreWeights) float64 {
	score := weights.Experience*criteria.ExperienceRating +
		weights.Safety*criteria.Safety +
		weights.CaloriesBurned*float64(criteria.CaloriesBurned)
	score -= weights.Price*criteria.Price +
		weights.Time*float64(criteria.TimeMinutes) +
		weights.CarbonEmissions*float64(criteria.CarbonEmissions)
	return score
}

func boolKey(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func reverse(ranked []models.RankedCandidate) {
	for i, j := 0, len(ranked)-1; i < j; i, j = i+1, j-1 {
		ranked[i], ranked[j] = ranked[j], ranked[i]
	}
}
