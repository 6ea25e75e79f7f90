package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func pure(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	cmd.Annotations[annotationPure] = "true"
	return cmd
}

func crossCmd(a *app) *cobra.Command {
	var categories []string
	cmd := &cobra.Command{
		Use:   "cross MALE_ID FEMALE_ID",
		Short: "Predict offspring genotype and phenotype distributions of two creatures",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.service.PredictCross(cmd.Context(), a.owner, args[0], args[1], categories...)
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
	cmd.Flags().StringSliceVar(&categories, "category", nil, "limit the prediction to these trait categories")
	return cmd
}

func phenotypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "phenotypes CREATURE_ID",
		Short: "Resolve a creature's genotypes to phenotypes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.service.Phenotypes(cmd.Context(), a.owner, args[0])
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
}

func speciesCmd(a *app) *cobra.Command {
	return pure(&cobra.Command{
		Use:   "species SPECIES_A SPECIES_B",
		Short: "List the possible offspring species of two species",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.service.OffspringSpecies(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.print(out)
		},
	})
}

func validatePairCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-pair MALE_ID FEMALE_ID",
		Short: "Check whether two creatures may be paired and how closely they are related",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.service.ValidatePairing(cmd.Context(), a.owner, args[0], args[1])
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
}

func generationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generation CREATURE_ID",
		Short: "Compute a creature's generation from the breeding logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.service.Generation(cmd.Context(), a.owner, args[0])
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
}

func inbreedingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inbreeding CREATURE_A CREATURE_B",
		Short: "Classify the relationship between two breeding candidates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.service.Inbreeding(cmd.Context(), a.owner, args[0], args[1])
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
}

func descendantsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "descendants CREATURE_ID",
		Short: "List descendants whose generation depends on a creature, with fresh generations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.service.Descendants(cmd.Context(), a.owner, args[0])
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
}

func goalMatchCmd(a *app) *cobra.Command {
	var goalID string
	cmd := &cobra.Command{
		Use:   "goal-match PAIR_ID",
		Short: "Score a pair against one goal, or every goal assigned to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if goalID != "" {
				out, err := a.service.GoalMatch(cmd.Context(), a.owner, args[0], goalID)
				if err != nil {
					return err
				}
				return a.print(out)
			}
			out, err := a.service.PairGoalMatches(cmd.Context(), a.owner, args[0])
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
	cmd.Flags().StringVar(&goalID, "goal", "", "score only this goal")
	return cmd
}

func progenyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "progeny CREATURE_ID GOAL_ID",
		Short: "Score a realized creature against a goal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.service.AnalyzeProgeny(cmd.Context(), a.owner, args[0], args[1])
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	// #nosec G304 -- operator-supplied input path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the owner's snapshot with a YAML or JSON document (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			out, err := a.service.Import(cmd.Context(), a.owner, data)
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var archive bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the owner's stored snapshot, or archive it to the blob store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if archive {
				store, err := a.openBlob(cmd.Context())
				if err != nil {
					return fmt.Errorf("open blob store: %w", err)
				}
				info, err := a.service.ArchiveSnapshot(cmd.Context(), a.owner, store)
				if err != nil {
					return err
				}
				return a.print(info)
			}
			out, err := a.service.Export(cmd.Context(), a.owner)
			if err != nil {
				return err
			}
			return a.print(out)
		},
	}
	cmd.Flags().BoolVar(&archive, "archive", false, "write the snapshot to the blob store instead of stdout")
	return cmd
}

func tablesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Publish and audit reference tables",
	}
	cmd.AddCommand(
		pure(&cobra.Command{
			Use:   "publish FILE",
			Short: "Validate a reference document and store it in the blob store (- reads stdin)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := readInput(cmd, args[0])
				if err != nil {
					return err
				}
				store, err := a.openBlob(cmd.Context())
				if err != nil {
					return fmt.Errorf("open blob store: %w", err)
				}
				info, bundle, err := a.service.PublishTables(cmd.Context(), store, data)
				if err != nil {
					return err
				}
				return a.print(struct {
					Key      string `json:"key"`
					ETag     string `json:"etag,omitempty"`
					Source   string `json:"source"`
					Version  string `json:"version,omitempty"`
					Findings any    `json:"findings"`
				}{info.Key, info.ETag, bundle.Source, bundle.Version, bundle.Findings})
			},
		}),
		pure(&cobra.Command{
			Use:   "audit",
			Short: "Report inconsistencies between the species, hybrid and compatibility tables",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				findings, err := a.service.AuditTables(cmd.Context())
				if err != nil {
					return err
				}
				return a.print(struct {
					Source   string `json:"source"`
					Version  string `json:"version,omitempty"`
					Findings any    `json:"findings"`
				}{a.service.Bundle().Source, a.service.Bundle().Version, findings})
			},
		}),
	)
	return cmd
}
