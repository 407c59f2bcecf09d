package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/PavaniTiago/leads-intelligence-api/internal/application/analytics"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/audit"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/filtering"
	"github.com/PavaniTiago/leads-intelligence-api/internal/application/ingestion"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/dates"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/entities"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/fields"
	"github.com/PavaniTiago/leads-intelligence-api/internal/domain/status"
	"github.com/PavaniTiago/leads-intelligence-api/internal/utils"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type ingestReport struct {
	Ingestion ingestion.Result             `json:"ingestion"`
	Metrics   entities.StandardizedMetrics `json:"metrics"`
	Issues    []analytics.Issue            `json:"issues"`
	Unknown   map[string]string            `json:"unknown_statuses,omitempty"`
}

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a webhook export and print the summary and metrics",
		Long: `Reads a JSON export (array or {"data": [...]}) from --file, or stdin with "-",
runs the ingestion pipeline and prints the ingestion summary with the standardized metrics.`,
		RunE: runIngest,
	}

	cmd.Flags().StringP("file", "f", "", "JSON file to ingest (\"-\" for stdin)")
	cmd.Flags().Int("chunk-size", ingestion.DefaultChunkSize, "rows processed per chunk")
	cmd.Flags().String("from", "", "only count leads from this day (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "only count leads up to this day (YYYY-MM-DD)")
	cmd.Flags().Bool("temporal", false, "drop leads without a valid date")
	cmd.Flags().String("reference-date", "", "reference day for year inference (YYYY-MM-DD, default today)")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")
	_ = cmd.MarkFlagRequired("file")

	_ = viper.BindPFlag("ingest.chunk_size", cmd.Flags().Lookup("chunk-size"))
	return cmd
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	loc := utils.GetBrasilLocation()

	path, _ := cmd.Flags().GetString("file")
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	now, err := referenceClock(cmd, loc)
	if err != nil {
		return err
	}

	var dr entities.DateRange
	if dr.From, err = dayFlag(cmd, "from", loc); err != nil {
		return err
	}
	if dr.To, err = dayFlag(cmd, "to", loc); err != nil {
		return err
	}
	temporal, _ := cmd.Flags().GetBool("temporal")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	opts := []ingestion.Option{ingestion.WithChunkSize(viper.GetInt("ingest.chunk_size"))}
	var bar *progressbar.ProgressBar
	if !noProgress {
		opts = append(opts, ingestion.WithProgress(func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionShowCount(),
					progressbar.OptionSetWidth(40),
					progressbar.OptionSetDescription("Ingesting leads..."),
					progressbar.OptionClearOnFinish(),
				)
			}
			_ = bar.Set(done)
		}))
	}

	auditLog := audit.NewLogger(audit.NewZapSink(logger.Named("audit")), "leadsctl")
	pipeline := ingestion.NewPipeline(fields.NewResolver(nil), dates.NewInterpreter(loc, now), auditLog, opts...)

	res, err := pipeline.IngestJSON(ctx, data)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	unknown := map[string]string{}
	engine := analytics.NewEngine(status.NewClassifier(func(raw, suggestion string) {
		unknown[raw] = suggestion
	}))

	leads := filtering.Apply(res.Leads, dr, entities.StatusFilter{}, filtering.Options{Temporal: temporal, Location: loc})
	m := engine.Compute(leads)
	issues := analytics.Validate(m)
	if issues == nil {
		issues = []analytics.Issue{}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(ingestReport{Ingestion: res, Metrics: m, Issues: issues, Unknown: unknown})
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func dayFlag(cmd *cobra.Command, name string, loc *time.Location) (time.Time, error) {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01-02", v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return t, nil
}

// referenceClock fixa o "hoje" usado na inferência de ano quando --reference-date é informado.
func referenceClock(cmd *cobra.Command, loc *time.Location) (func() time.Time, error) {
	ref, err := dayFlag(cmd, "reference-date", loc)
	if err != nil || ref.IsZero() {
		return nil, err
	}
	return func() time.Time { return ref }, nil
}
