package core

import (
	"context"

	"breedlab/pkg/domain"
	"breedlab/pkg/genetics"
)

// CategoryPrediction is the offspring outlook for one trait category.
type CategoryPrediction struct {
	Category   string                               `json:"category"`
	Genotypes  []genetics.DistributionEntry         `json:"genotypes"`
	Phenotypes map[domain.Gender]map[string]float64 `json:"phenotypes"`
}

// CrossPrediction is the predicted outcome of crossing two creatures.
type CrossPrediction struct {
	MaleID           string                     `json:"male_id"`
	FemaleID         string                     `json:"female_id"`
	Pairing          genetics.PairingValidation `json:"pairing"`
	PhenotypeSpecies string                     `json:"phenotype_species"`
	Categories       []CategoryPrediction       `json:"categories"`
}

// PredictCross crosses maleID with femaleID for each requested category, or
// for every known category when none are given. Phenotypes are resolved
// against the male's species for both offspring genders. The prediction is
// produced even when the pairing itself is invalid; Pairing says why.
func (s *Service) PredictCross(ctx context.Context, ownerID, maleID, femaleID string, categories ...string) (CrossPrediction, error) {
	var out CrossPrediction
	err := s.run(ctx, "predict_cross", func(ctx context.Context) error {
		snapshot, err := s.load(ctx, ownerID)
		if err != nil {
			return err
		}
		parents, err := resolveParents(snapshot, maleID, femaleID)
		if err != nil {
			return err
		}
		tables := s.engine.Tables()
		species := parents.Species()
		if len(categories) == 0 {
			categories = s.categoriesOf(species, parents.Male, parents.Female)
		}
		out = CrossPrediction{
			MaleID:           maleID,
			FemaleID:         femaleID,
			Pairing:          tables.ValidatePairing(parents.Male, parents.Female),
			PhenotypeSpecies: species,
			Categories:       make([]CategoryPrediction, 0, len(categories)),
		}
		for _, category := range categories {
			dist := parents.Cross(category)
			out.Categories = append(out.Categories, CategoryPrediction{
				Category:  category,
				Genotypes: dist.Entries(),
				Phenotypes: map[domain.Gender]map[string]float64{
					domain.GenderMale:   tables.PhenotypeDistribution(species, category, dist, domain.GenderMale),
					domain.GenderFemale: tables.PhenotypeDistribution(species, category, dist, domain.GenderFemale),
				},
			})
		}
		return nil
	})
	return out, err
}

// CreaturePhenotypes is the realized appearance of one creature.
type CreaturePhenotypes struct {
	CreatureID string            `json:"creature_id"`
	Species    string            `json:"species"`
	Phenotypes map[string]string `json:"phenotypes"`
}

// Phenotypes resolves every category of a creature to its phenotype.
// Categories the creature has no genotype for resolve to Unknown.
func (s *Service) Phenotypes(ctx context.Context, ownerID, creatureID string) (CreaturePhenotypes, error) {
	var out CreaturePhenotypes
	err := s.run(ctx, "phenotypes", func(ctx context.Context) error {
		snapshot, err := s.load(ctx, ownerID)
		if err != nil {
			return err
		}
		creature, err := findCreature(snapshot, creatureID)
		if err != nil {
			return err
		}
		out = CreaturePhenotypes{CreatureID: creature.ID, Species: creature.Species, Phenotypes: make(map[string]string)}
		for _, category := range s.categoriesOf(creature.Species, creature) {
			out.Phenotypes[category] = s.engine.Tables().ResolvePhenotype(creature.Species, category, creature.Genotype(category), creature.Gender)
		}
		return nil
	})
	return out, err
}

// OffspringSpecies returns the possible offspring species of two species.
// An empty result means the pairing produces nothing.
func (s *Service) OffspringSpecies(ctx context.Context, a, b string) ([]genetics.HybridOutcome, error) {
	var out []genetics.HybridOutcome
	err := s.run(ctx, "offspring_species", func(context.Context) error {
		tables := s.engine.Tables()
		if !tables.IsPairingCompatible(a, b) {
			out = []genetics.HybridOutcome{}
			return nil
		}
		out = tables.PossibleOffspringSpecies(a, b)
		return nil
	})
	return out, err
}

// PairingReport combines the pairing rules with the inbreeding check.
type PairingReport struct {
	genetics.PairingValidation
	Inbreeding genetics.InbreedingResult `json:"inbreeding"`
}

// ValidatePairing checks whether maleID and femaleID may be paired and how
// closely they are related. Inbreeding is advisory and does not affect
// IsValid.
func (s *Service) ValidatePairing(ctx context.Context, ownerID, maleID, femaleID string) (PairingReport, error) {
	var out PairingReport
	err := s.run(ctx, "validate_pairing", func(ctx context.Context) error {
		snapshot, err := s.load(ctx, ownerID)
		if err != nil {
			return err
		}
		parents, err := resolveParents(snapshot, maleID, femaleID)
		if err != nil {
			return err
		}
		out = PairingReport{
			PairingValidation: s.engine.Tables().ValidatePairing(parents.Male, parents.Female),
			Inbreeding:        s.engine.Inbreeding(maleID, femaleID, snapshot.Pairs, snapshot.Logs),
		}
		s.reportIssues("validate_pairing", ownerID, out.Inbreeding.Issues)
		return nil
	})
	return out, err
}

// GoalMatch scores a pair against one goal.
func (s *Service) GoalMatch(ctx context.Context, ownerID, pairID, goalID string) (genetics.GoalMatchResult, error) {
	var out genetics.GoalMatchResult
	err := s.run(ctx, "goal_match", func(ctx context.Context) error {
		snapshot, err := s.load(ctx, ownerID)
		if err != nil {
			return err
		}
		_, parents, err := resolvePair(snapshot, pairID)
		if err != nil {
			return err
		}
		goal, err := findGoal(snapshot, goalID)
		if err != nil {
			return err
		}
		out = s.engine.AggregateGoalMatch(parents, goal)
		return nil
	})
	return out, err
}

// PairGoalMatches scores a pair against every goal assigned to it, in
// assignment order. Assigned goals missing from the snapshot are skipped
// with a warning.
func (s *Service) PairGoalMatches(ctx context.Context, ownerID, pairID string) ([]genetics.GoalMatchResult, error) {
	var out []genetics.GoalMatchResult
	err := s.run(ctx, "pair_goal_matches", func(ctx context.Context) error {
		snapshot, err := s.load(ctx, ownerID)
		if err != nil {
			return err
		}
		pair, parents, err := resolvePair(snapshot, pairID)
		if err != nil {
			return err
		}
		out = make([]genetics.GoalMatchResult, 0, len(pair.AssignedGoalIDs))
		seen := make(map[string]struct{}, len(pair.AssignedGoalIDs))
		for _, goalID := range pair.AssignedGoalIDs {
			if _, dup := seen[goalID]; dup {
				continue
			}
			seen[goalID] = struct{}{}
			goal, ok := snapshot.FindGoal(goalID)
			if !ok {
				s.logger.Warn("assigned goal missing", "owner", ownerID, "pair", pairID, "goal", goalID)
				continue
			}
			out = append(out, s.engine.AggregateGoalMatch(parents, goal))
		}
		return nil
	})
	return out, err
}

// AnalyzeProgeny scores a realized creature against a goal.
func (s *Service) AnalyzeProgeny(ctx context.Context, ownerID, creatureID, goalID string) (genetics.ProgenyAnalysis, error) {
	var out genetics.ProgenyAnalysis
	err := s.run(ctx, "analyze_progeny", func(ctx context.Context) error {
		snapshot, err := s.load(ctx, ownerID)
		if err != nil {
			return err
		}
		creature, err := findCreature(snapshot, creatureID)
		if err != nil {
			return err
		}
		goal, err := findGoal(snapshot, goalID)
		if err != nil {
			return err
		}
		out = s.engine.AnalyzeProgenyAgainstGoal(creature, goal)
		return nil
	})
	return out, err
}
