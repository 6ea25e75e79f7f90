package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"breedlab/internal/blob"
	"breedlab/internal/core"
	"breedlab/internal/infra/persistence/memory"
	"breedlab/internal/reference"
)

const (
	envOwner       = "BREEDLAB_OWNER"
	defaultOwner   = "default"
	annotationPure = "breedlab/no-store"
)

// app carries the flag values and lazily opened dependencies shared by
// every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	owner         string
	tables        string
	logLevel      string
	logFormat     string
	metrics       string
	trace         bool
	ancestorDepth int

	openStore func(context.Context) (core.SnapshotStore, error)
	openBlob  func(context.Context) (blob.Store, error)

	logger   *slog.Logger
	store    core.SnapshotStore
	service  *core.Service
	registry *prometheus.Registry
	expvar   *core.ExpvarMetricsRecorder
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:    stdout,
		stderr:    stderr,
		openStore: core.OpenSnapshotStore,
		openBlob:  blob.Open,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "breedlab",
		Short: "Predict breeding outcomes from recorded creatures, pairs and goals",
		Long: `breedlab crosses genotypes, resolves phenotypes, checks pairing rules
and pedigree relationships, and scores pairs and progeny against breeding goals.`,
		SilenceErrors:      true,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	owner := os.Getenv(envOwner)
	if owner == "" {
		owner = defaultOwner
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.owner, "owner", owner, "owner whose snapshot is evaluated (env "+envOwner+")")
	flags.StringVar(&a.tables, "tables", os.Getenv(reference.EnvTables), "reference tables: file path, blob:<key>, blob:latest or builtin (env "+reference.EnvTables+")")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format: text|json")
	flags.StringVar(&a.metrics, "metrics", "none", "dump operation metrics to stderr on exit: none|expvar|prometheus")
	flags.BoolVar(&a.trace, "trace", false, "write JSON trace spans to stderr")
	flags.IntVar(&a.ancestorDepth, "ancestor-depth", 0, "generations walked by inbreeding checks (0 uses the default)")

	root.AddCommand(
		crossCmd(a),
		phenotypesCmd(a),
		speciesCmd(a),
		validatePairCmd(a),
		generationCmd(a),
		inbreedingCmd(a),
		descendantsCmd(a),
		goalMatchCmd(a),
		progenyCmd(a),
		importCmd(a),
		exportCmd(a),
		tablesCmd(a),
	)
	return root
}

func parseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return 0, fmt.Errorf("invalid --log-level %q", level)
	}
	return l, nil
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level, err := parseLevel(a.logLevel)
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(a.logFormat) {
	case "text":
		a.logger = slog.New(slog.NewTextHandler(a.stderr, opts))
	case "json":
		a.logger = slog.New(slog.NewJSONHandler(a.stderr, opts))
	default:
		return fmt.Errorf("invalid --log-format %q", a.logFormat)
	}

	ctx := cmd.Context()
	bundle, err := reference.Resolve(ctx, a.tables, a.openBlob)
	if err != nil {
		return err
	}
	a.logger.Debug("reference tables loaded", "source", bundle.Source, "version", bundle.Version)

	if cmd.Annotations[annotationPure] == "true" {
		a.store = noCloseStore{memory.NewStore()}
	} else if a.store, err = a.openStore(ctx); err != nil {
		return fmt.Errorf("open snapshot store: %w", err)
	}

	options := []core.Option{
		core.WithLogger(a.logger),
		core.WithTables(bundle),
		core.WithAncestorDepth(a.ancestorDepth),
	}
	switch a.metrics {
	case "", "none":
	case "expvar":
		a.expvar = core.NewExpvarMetricsRecorder("")
		options = append(options, core.WithMetricsRecorder(a.expvar))
	case "prometheus":
		a.registry = prometheus.NewRegistry()
		options = append(options, core.WithMetricsRecorder(core.NewPrometheusMetricsRecorder(a.registry)))
	default:
		return fmt.Errorf("invalid --metrics %q", a.metrics)
	}
	if a.trace {
		options = append(options, core.WithTracer(core.NewJSONTracer(a.stderr)))
	}
	a.service, err = core.NewService(a.store, options...)
	return err
}

func (a *app) teardown(*cobra.Command, []string) error {
	var errs []error
	switch {
	case a.expvar != nil:
		errs = append(errs, json.NewEncoder(a.stderr).Encode(a.expvar.Snapshot()))
	case a.registry != nil:
		families, err := a.registry.Gather()
		errs = append(errs, err)
		for _, family := range families {
			_, err := expfmt.MetricFamilyToText(a.stderr, family)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// close releases the snapshot store. It runs even when the command failed.
func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

type noCloseStore struct{ *memory.Store }

func (noCloseStore) Close() error { return nil }

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
