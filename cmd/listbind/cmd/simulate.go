package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-drift/listbind/cmd/listbind/internal/scenario"
	"github.com/go-drift/listbind/cmd/listbind/internal/sim"
	"github.com/go-drift/listbind/pkg/metrics"
)

func init() {
	var dumpMetrics bool
	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml>",
		Short: "Replay a scripted list session",
		Long: `Replay a scripted list session against the binding adapter.

The scenario file describes the list geometry, the number of items and a
sequence of steps (scroll, scroll_to, insert, remove, touch, dirty, attach,
detach). After every step the reference host lays out the viewport and one
row is printed with what the adapter did.

Example scenario:

  version: v1.0.0
  items: 200
  list: {item_extent: 56, viewport_extent: 640, cache_extent: 112}
  steps:
    - scroll: 300
    - insert: {at: 0, count: 3}
    - touch: 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.OutOrStdout(), args[0], dumpMetrics)
		},
	}
	cmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "print adapter metrics in Prometheus text format")
	RegisterCommand(cmd)
}

func runSimulate(out io.Writer, path string, dumpMetrics bool) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}
	if err := sc.Resolve(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(
		metrics.WithRegistry(registry),
		metrics.WithConstLabels(prometheus.Labels{"scenario": sc.Name}),
	)

	s, err := sim.New(sc, sim.Options{Logger: logger, Recorder: recorder})
	if err != nil {
		return err
	}
	logger.Debug("running scenario", zap.String("name", sc.Name), zap.Int("steps", len(sc.Steps)))
	reports, runErr := s.Run()
	printReports(out, sc.Name, reports)

	if dumpMetrics {
		if err := writeMetrics(out, registry); err != nil {
			return err
		}
	}
	return runErr
}

func printReports(out io.Writer, name string, reports []sim.Report) {
	fmt.Fprintf(out, "scenario %s\n\n", name)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tACTION\tRANGE\tCREATED\tREUSED\tREFRESHED\tREBOUND\tSIGNALS\tBOUND\tSUBS\tPOOL")
	for _, r := range reports {
		fmt.Fprintf(tw, "%d\t%s\t[%d,%d)\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.Step, r.Kind, r.Start, r.End, r.Created, r.Reused, r.Refreshed, r.Rebound,
			r.Signals, r.Bound, r.Subscriptions, r.Pool)
	}
	tw.Flush()
}

func writeMetrics(out io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	fmt.Fprintln(out)
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
