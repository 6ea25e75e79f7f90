package genetics

import "breedlab/pkg/domain"

// CalculateGeneProbability returns the chance an offspring of male and female
// hits target in category. In genotype mode this is the probability of the
// exact target genotype. In phenotype mode each offspring genotype is
// resolved for a male and for a female offspring, and each gender carries
// half the genotype's probability, so gender-tagged entries of dimorphic
// categories never push the phenotype probabilities of a category past 1.
// Missing or malformed parent genetics yield 0.
func (e *Engine) CalculateGeneProbability(species string, male, female domain.Creature, category string, target domain.GeneTarget, mode domain.GoalMode) float64 {
	dist := CrossGenotypes(male.Genotype(category), female.Genotype(category))
	if len(dist) == 0 {
		return 0
	}
	if mode == domain.GoalModeGenotype {
		return dist.Probability(target.TargetGenotype)
	}
	var p float64
	for genotype, q := range dist {
		for _, gender := range offspringGenders {
			if e.tables.ResolvePhenotype(species, category, genotype, gender) == target.TargetPhenotype {
				p += q / 2
			}
		}
	}
	return p
}

var offspringGenders = [...]domain.Gender{domain.GenderMale, domain.GenderFemale}

// GoalMatchResult scores a breeding pair against a goal.
type GoalMatchResult struct {
	GoalID        string             `json:"goal_id,omitempty"`
	PerCategory   map[string]float64 `json:"per_category_probability"`
	AverageChance float64            `json:"average_chance"`
	IsPossible    bool               `json:"is_possible"`
	// SpeciesProbability is the chance an offspring is the goal species. It
	// is informational and does not affect IsPossible or AverageChance.
	SpeciesProbability float64 `json:"species_probability"`
}

// AggregateGoalMatch scores parents against goal. Only non-optional
// categories count: the pair is impossible when any of them has probability
// exactly 0, and AverageChance is their arithmetic mean, or 1 when the goal
// has no non-optional categories.
func (e *Engine) AggregateGoalMatch(parents Parents, goal domain.Goal) GoalMatchResult {
	species := goal.Species
	if species == "" {
		species = parents.Species()
	}
	mode := goal.EffectiveMode()
	res := GoalMatchResult{
		GoalID:             goal.ID,
		PerCategory:        make(map[string]float64),
		IsPossible:         true,
		SpeciesProbability: e.tables.OffspringSpeciesProbability(parents.Male.Species, parents.Female.Species, species),
	}
	var sum float64
	for _, category := range goal.Categories() {
		target := goal.Genes[category]
		if target.IsOptional {
			continue
		}
		p := e.CalculateGeneProbability(species, parents.Male, parents.Female, category, target, mode)
		res.PerCategory[category] = p
		sum += p
		if p == 0 {
			res.IsPossible = false
		}
	}
	if n := len(res.PerCategory); n > 0 {
		res.AverageChance = sum / float64(n)
	} else {
		res.AverageChance = 1
	}
	return res
}

// CategoryMismatch is one goal category a realized creature failed.
type CategoryMismatch struct {
	Category string `json:"category"`
	Target   string `json:"target"`
	Actual   string `json:"actual"`
	Optional bool   `json:"optional,omitempty"`
}

// ProgenyAnalysis scores a realized creature against a goal.
type ProgenyAnalysis struct {
	GoalID      string             `json:"goal_id,omitempty"`
	Score       float64            `json:"score"`
	NonMatching []CategoryMismatch `json:"non_matching_categories"`
}

// AnalyzeProgenyAgainstGoal compares the creature's realized genotype or
// phenotype, per the goal mode, with every goal category. A category matches
// when the values are equal, or when it is optional and the realized value is
// not excluded. Score is the matched percentage, 100 for an empty goal.
func (e *Engine) AnalyzeProgenyAgainstGoal(creature domain.Creature, goal domain.Goal) ProgenyAnalysis {
	mode := goal.EffectiveMode()
	res := ProgenyAnalysis{GoalID: goal.ID, NonMatching: []CategoryMismatch{}}
	categories := goal.Categories()
	if len(categories) == 0 {
		res.Score = 100
		return res
	}
	matched := 0
	for _, category := range categories {
		target := goal.Genes[category]
		actual, want := e.realized(creature, category, mode), target.Target(mode)
		if mode == domain.GoalModeGenotype {
			want = CanonicalGenotype(want)
		}
		if (actual != "" && actual == want) || (target.IsOptional && !excludes(target, actual, mode)) {
			matched++
			continue
		}
		res.NonMatching = append(res.NonMatching, CategoryMismatch{
			Category: category,
			Target:   want,
			Actual:   actual,
			Optional: target.IsOptional,
		})
	}
	res.Score = float64(matched) / float64(len(categories)) * 100
	return res
}

func (e *Engine) realized(c domain.Creature, category string, mode domain.GoalMode) string {
	genotype := c.Genotype(category)
	if mode == domain.GoalModeGenotype {
		return CanonicalGenotype(genotype)
	}
	return e.tables.ResolvePhenotype(c.Species, category, genotype, c.Gender)
}

func excludes(target domain.GeneTarget, actual string, mode domain.GoalMode) bool {
	if mode != domain.GoalModeGenotype {
		return target.Excludes(actual)
	}
	for _, v := range target.ExcludedValues {
		if CanonicalGenotype(v) == actual {
			return true
		}
	}
	return false
}
