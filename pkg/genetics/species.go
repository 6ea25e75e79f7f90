package genetics

import (
	"fmt"
	"slices"

	"breedlab/pkg/domain"
)

// IsPairingCompatible reports whether two species may breed. Same-species
// pairing is always allowed; cross-species pairing requires an allow-list
// entry in either orientation.
func (t *Tables) IsPairingCompatible(a, b string) bool {
	if a == b {
		return true
	}
	if t == nil {
		return false
	}
	_, ok := t.compatible[NewSpeciesPair(a, b)]
	return ok
}

// PossibleOffspringSpecies returns the offspring species distribution of a
// pairing. Same species yields that species at probability 1. Cross-species
// outcomes are returned exactly as configured, including uneven three-way
// splits, and are never renormalized. An unrecognized pairing yields an empty
// list, meaning no valid offspring.
func (t *Tables) PossibleOffspringSpecies(a, b string) []HybridOutcome {
	if a == b {
		return []HybridOutcome{{Species: a, Probability: 1}}
	}
	if t == nil {
		return []HybridOutcome{}
	}
	outcomes, ok := t.hybrids[NewSpeciesPair(a, b)]
	if !ok {
		return []HybridOutcome{}
	}
	return slices.Clone(outcomes)
}

// OffspringSpeciesProbability returns the chance a pairing produces species.
func (t *Tables) OffspringSpeciesProbability(a, b, species string) float64 {
	var p float64
	for _, o := range t.PossibleOffspringSpecies(a, b) {
		if o.Species == species {
			p += o.Probability
		}
	}
	return p
}

// PairingValidation is the outcome of checking a proposed pair. Reason is a
// human-readable explanation suitable for end users when IsValid is false.
type PairingValidation struct {
	IsValid          bool            `json:"is_valid"`
	Reason           string          `json:"reason,omitempty"`
	OffspringSpecies []HybridOutcome `json:"offspring_species,omitempty"`
}

func rejectPairing(format string, args ...any) PairingValidation {
	return PairingValidation{Reason: fmt.Sprintf(format, args...)}
}

// ValidatePairing applies the pairing business rules: two distinct creatures,
// one male and one female, both adult, with compatible species that produce
// at least one offspring species.
func (t *Tables) ValidatePairing(male, female domain.Creature) PairingValidation {
	if male.ID != "" && male.ID == female.ID {
		return rejectPairing("a creature cannot be paired with itself")
	}
	if male.Gender != domain.GenderMale {
		return rejectPairing("%s must be male to be the sire", displayName(male))
	}
	if female.Gender != domain.GenderFemale {
		return rejectPairing("%s must be female to be the dam", displayName(female))
	}
	for _, c := range []domain.Creature{male, female} {
		if !c.IsAdult() {
			return rejectPairing("%s is not an adult", displayName(c))
		}
	}
	if !t.IsPairingCompatible(male.Species, female.Species) {
		return rejectPairing("%s and %s cannot be paired", male.Species, female.Species)
	}
	offspring := t.PossibleOffspringSpecies(male.Species, female.Species)
	if len(offspring) == 0 {
		return rejectPairing("%s and %s produce no known offspring species", male.Species, female.Species)
	}
	return PairingValidation{IsValid: true, OffspringSpecies: offspring}
}

func displayName(c domain.Creature) string {
	if c.Name != "" {
		return c.Name
	}
	if c.ID != "" {
		return c.ID
	}
	return "creature"
}
