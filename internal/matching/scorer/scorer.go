// Package scorer ranks candidate vehicles against a description and rates
// how specific the attribute extraction was.
package scorer

import "vehicle-matcher/internal/models"

const (
	// MaxConfidence is reached when every attribute type matched exactly one value.
	MaxConfidence = 2 * 5

	uniqueMatchPoints    = 2
	ambiguousMatchPoints = 1
)

type Scorer struct{}

func New() *Scorer {
	return &Scorer{}
}

// Similarity is the token-set ratio between the raw description and the
// vehicle's normalised description, 0..100.
func (s *Scorer) Similarity(description string, vehicle models.Vehicle) int {
	return TokenSetRatio(description, vehicle.Description())
}

// Confidence awards 2 points per attribute type with exactly one match and
// 1 point per type with several; absent types score nothing.
func (s *Scorer) Confidence(extraction models.ExtractionResult) int {
	score := 0
	for _, at := range models.AttributeTypes {
		switch n := len(extraction[at]); {
		case n == 1:
			score += uniqueMatchPoints
		case n > 1:
			score += ambiguousMatchPoints
		}
	}
	return score
}

// PickBest chooses one vehicle from candidates. found is false for an empty
// list. A lone candidate is returned as is and similarity is not computed;
// ranked reports whether similarity scoring took place. Among several
// candidates the highest similarity wins, then the highest listing count,
// then the earliest in candidates.
func (s *Scorer) PickBest(candidates []models.Vehicle, description string) (best models.Vehicle, found bool, ranked bool) {
	switch len(candidates) {
	case 0:
		return models.Vehicle{}, false, false
	case 1:
		return candidates[0], true, false
	}

	scores := make([]int, len(candidates))
	top := -1
	for i, c := range candidates {
		scores[i] = s.Similarity(description, c)
		if scores[i] > top {
			top = scores[i]
		}
	}

	bestIdx := -1
	for i, c := range candidates {
		if scores[i] != top {
			continue
		}
		if bestIdx == -1 || c.ListingCount > candidates[bestIdx].ListingCount {
			bestIdx = i
		}
	}
	return candidates[bestIdx], true, true
}
