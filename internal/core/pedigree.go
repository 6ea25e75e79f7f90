package core

import (
	"context"

	"breedlab/pkg/genetics"
)

// Generation computes the generation of creatureID.
func (s *Service) Generation(ctx context.Context, ownerID, creatureID string) (genetics.GenerationResult, error) {
	var out genetics.GenerationResult
	err := s.run(ctx, "generation", func(ctx context.Context) error {
		snapshot, err := s.load(ctx, ownerID)
		if err != nil {
			return err
		}
		if _, err := findCreature(snapshot, creatureID); err != nil {
			return err
		}
		out = genetics.ComputeGeneration(creatureID, snapshot.Pairs, snapshot.Logs)
		s.reportIssues("generation", ownerID, out.Issues)
		return nil
	})
	return out, err
}

// Inbreeding classifies how closely a and b are related.
func (s *Service) Inbreeding(ctx context.Context, ownerID, a, b string) (genetics.InbreedingResult, error) {
	var out genetics.InbreedingResult
	err := s.run(ctx, "inbreeding", func(ctx context.Context) error {
		snapshot, err := s.load(ctx, ownerID)
		if err != nil {
			return err
		}
		for _, id := range []string{a, b} {
			if _, err := findCreature(snapshot, id); err != nil {
				return err
			}
		}
		out = s.engine.Inbreeding(a, b, snapshot.Pairs, snapshot.Logs)
		s.reportIssues("inbreeding", ownerID, out.Issues)
		return nil
	})
	return out, err
}

// DescendantReport lists the creatures affected by an ancestry edit to
// CreatureID together with their recomputed generations.
type DescendantReport struct {
	CreatureID  string                    `json:"creature_id"`
	Descendants []string                  `json:"descendants"`
	Generations map[string]int            `json:"generations"`
	Issues      []genetics.IntegrityIssue `json:"issues,omitempty"`
}

// Descendants walks forward from creatureID and recomputes the generation of
// every descendant, in breadth-first order. The start creature need not be
// in the snapshot; an edit may have just removed it.
func (s *Service) Descendants(ctx context.Context, ownerID, creatureID string) (DescendantReport, error) {
	var out DescendantReport
	err := s.run(ctx, "descendants", func(ctx context.Context) error {
		snapshot, err := s.load(ctx, ownerID)
		if err != nil {
			return err
		}
		pedigree := genetics.NewPedigree(snapshot.Pairs, snapshot.Logs)
		generations, issues := pedigree.RecomputeGenerations(creatureID)
		out = DescendantReport{
			CreatureID:  creatureID,
			Descendants: pedigree.Descendants(creatureID),
			Generations: generations,
			Issues:      issues,
		}
		s.reportIssues("descendants", ownerID, issues)
		return nil
	})
	return out, err
}
