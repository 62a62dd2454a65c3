package compare

import (
	"wayfare.openmobility.org/internal/models"
)

// Selection is the user's filter choice for one comparison or re-rank. It is
// an explicit input to the filter, never ambient state the engine reads on
// its own.
type Selection struct {
	// Modes is the set of ride methods to keep. A nil map means every mode is
	// selected; an empty non-nil map keeps nothing.
	Modes map[models.RideMethod]bool

	// Tags is the set of qualitative criteria to match. An empty or nil set
	// disables tag filtering. A candidate passes when it satisfies at least
	// one selected tag (OR semantics).
	Tags map[models.QualitativeTag]bool
}

// Filter reduces the annotated candidate set to the candidates matching the
// selection. It allocates a fresh slice and never mutates its input, so it is
// safe to re-invoke any number of times with different selections.
func Filter(candidates []models.ServiceCandidate, sel Selection) []models.ServiceCandidate {
	out := make([]models.ServiceCandidate, 0, len(candidates))
	for _, c := range candidates {
		if sel.Modes != nil && !sel.Modes[c.RideMethod] {
			continue
		}
		if len(sel.Tags) > 0 && !matchesAnyTag(c.Criteria, sel.Tags) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesAnyTag(criteria models.ServiceCriteria, tags map[models.QualitativeTag]bool) bool {
	if tags[models.TagExperience] && criteria.Experience {
		return true
	}
	if tags[models.TagPubliclyOperated] && criteria.PubliclyOperated {
		return true
	}
	if tags[models.TagSmallBusiness] && criteria.SmallBusiness {
		return true
	}
	return false
}
