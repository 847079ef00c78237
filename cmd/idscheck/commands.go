package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	goids "github.com/reoring/goids"
	"github.com/reoring/goids/i18n"
	"github.com/reoring/goids/internal/config"
	"github.com/reoring/goids/internal/logging"
	"github.com/reoring/goids/internal/render"
	"github.com/reoring/goids/memmodel"
	"github.com/reoring/goids/metrics"
)

// errSpecificationsFailed is returned by validate when any specification of
// any document failed.
var errSpecificationsFailed = errors.New("one or more specifications failed")

type rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func rootCmd(stdout, stderr io.Writer) *cobra.Command {
	var rf rootFlags

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Check BIM models against IDS rule documents",
		Long: `idscheck parses buildingSMART Information Delivery Specification (IDS)
documents and validates model snapshots (JSON or YAML) against them.

Configuration is read from idscheck.yaml (or --config), then .env and
IDSCHECK_* environment variables, then command line flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.PersistentFlags().StringVarP(&rf.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&rf.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&rf.logFormat, "log-format", "", "Log format (text, json)")

	cmd.AddCommand(validateCmd(&rf), inspectCmd(&rf), configCmd(&rf))

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// setup loads the layered configuration and builds the logger. Root flags
// override the loaded values.
func setup(cmd *cobra.Command, rf *rootFlags) (*config.Config, *slog.Logger, error) {
	boot := logging.New(cmd.ErrOrStderr(), "text", rf.logLevel)
	cfg, err := config.NewLoader(boot).Load(rf.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if rf.logLevel != "" {
		cfg.Log.Level = rf.logLevel
	}
	if rf.logFormat != "" {
		cfg.Log.Format = rf.logFormat
	}
	return cfg, logging.New(cmd.ErrOrStderr(), cfg.Log.Format, cfg.Log.Level), nil
}

type validateFlags struct {
	ids         []string
	model       string
	format      string
	out         string
	maxEntities int
	omitPassing bool
	lang        string
	concurrency int
	metricsFile string
}

func validateCmd(rf *rootFlags) *cobra.Command {
	var vf validateFlags

	cmd := &cobra.Command{
		Use:   "validate --ids <glob> --model <snapshot>",
		Short: "Validate a model snapshot against IDS documents",
		Example: `  idscheck validate --ids 'rules/**/*.ids' --model building.yaml
  idscheck validate --ids walls.ids --model building.json --format json --out report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, rf)
			if err != nil {
				return err
			}
			applyValidateFlags(cmd, cfg, &vf)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runValidate(cmd, cfg, logger, vf)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&vf.ids, "ids", nil, "IDS document path or glob (repeatable, ** supported)")
	f.StringVar(&vf.model, "model", "", "Model snapshot (.json, .yaml, .yml)")
	f.StringVar(&vf.format, "format", "", "Report format (text, json, yaml)")
	f.StringVarP(&vf.out, "out", "o", "", "Write the report to this file instead of stdout")
	f.IntVar(&vf.maxEntities, "max-entities", 0, "Check at most N applicable entities per specification (0 = all)")
	f.BoolVar(&vf.omitPassing, "omit-passing", false, "Leave passing entities out of the report")
	f.StringVar(&vf.lang, "lang", "", "Report language as a BCP 47 tag (en, de, ja)")
	f.IntVar(&vf.concurrency, "concurrency", 0, "Specifications evaluated in parallel")
	f.StringVar(&vf.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	_ = cmd.MarkFlagRequired("ids")
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func applyValidateFlags(cmd *cobra.Command, cfg *config.Config, vf *validateFlags) {
	f := cmd.Flags()
	if f.Changed("format") {
		cfg.Format = vf.format
	}
	if f.Changed("max-entities") {
		cfg.MaxEntities = vf.maxEntities
	}
	if f.Changed("omit-passing") {
		cfg.OmitPassing = vf.omitPassing
	}
	if f.Changed("lang") {
		cfg.Lang = vf.lang
	}
	if f.Changed("concurrency") {
		cfg.Concurrency = vf.concurrency
	}
	if f.Changed("metrics-file") {
		cfg.MetricsFile = vf.metricsFile
	}
}

func runValidate(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, vf validateFlags) (err error) {
	paths, err := expandIDS(vf.ids)
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	model, err := memmodel.LoadFile(vf.model)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	logger.Info("Loaded model", slog.String("path", vf.model), slog.Int("entities", model.Len()))

	w := cmd.OutOrStdout()
	if vf.out != "" {
		fh, cerr := os.Create(vf.out)
		if cerr != nil {
			return cerr
		}
		defer closeOutput(fh, &err)
		w = fh
	}

	reg := prometheus.NewRegistry()
	collector := metrics.New(reg)
	tr := i18n.New(cfg.Lang)
	opts := []goids.Option{
		goids.WithTranslator(tr),
		goids.WithMaxEntities(cfg.MaxEntities),
		goids.WithOmitPassingEntities(cfg.OmitPassing),
		goids.WithConcurrency(cfg.Concurrency),
		goids.WithLogger(logger),
		goids.WithProgress(func(p goids.Progress) {
			if p.Phase != goids.PhaseValidating {
				logger.Debug("progress",
					slog.String("phase", string(p.Phase)),
					slog.Int("spec", p.SpecIndex),
					slog.Float64("percent", p.Percentage))
			}
		}),
	}

	failed := false
	for i, path := range paths {
		doc, err := parseFile(path)
		if err != nil {
			return err
		}
		start := time.Now()
		rep, err := goids.Validate(cmd.Context(), doc, model, model.Info(), opts...)
		if err != nil {
			collector.ObserveError(time.Since(start))
			return fmt.Errorf("%s: %w", path, err)
		}
		collector.Observe(rep, time.Since(start))
		logger.Info("Validated",
			slog.String("ids", path),
			slog.Int("passed", rep.Summary.PassedSpecifications),
			slog.Int("failed", rep.Summary.FailedSpecifications),
			slog.Duration("took", time.Since(start)))

		if i > 0 {
			sep := "\n"
			if format == render.FormatYAML {
				sep = "---\n"
			}
			if _, err := io.WriteString(w, sep); err != nil {
				return err
			}
		}
		if err := render.Report(w, rep, format, tr); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		if !rep.Passed() {
			failed = true
		}
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	if failed {
		return errSpecificationsFailed
	}
	return nil
}

// closeOutput closes the report file. A close error replaces a nil result
// or errSpecificationsFailed, since the report on disk may be incomplete.
func closeOutput(c io.Closer, errp *error) {
	cerr := c.Close()
	if cerr == nil {
		return
	}
	if *errp == nil || errors.Is(*errp, errSpecificationsFailed) {
		*errp = fmt.Errorf("close report: %w", cerr)
	}
}

// expandIDS resolves every pattern with doublestar. A pattern without
// matches is an error.
func expandIDS(patterns []string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("ids pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("ids pattern %q: no files matched", p)
		}
		for _, m := range matches {
			if !slices.Contains(out, m) {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func parseFile(path string) (*goids.Document, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	doc, err := goids.ParseDocumentReader(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func inspectCmd(rf *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <ids-file>",
		Short: "Print the parsed specification tree of an IDS document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := setup(cmd, rf); err != nil {
				return err
			}
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == render.FormatText {
				f = render.FormatYAML
			}
			doc, err := parseFile(args[0])
			if err != nil {
				return err
			}
			return render.Value(cmd.OutOrStdout(), doc, f)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "Output format (yaml, json)")

	return cmd
}

func configCmd(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the idscheck configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective configuration to " + config.ProjectConfigFile,
		Long: `init writes the configuration currently in effect (defaults, config file,
environment and root flags) as YAML. The path defaults to ` + config.ProjectConfigFile + `
in the working directory. An existing file is kept unless --force is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, rf)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			path := config.ProjectConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", path)
				}
			}
			if err := cfg.SaveToFile(path); err != nil {
				return err
			}
			logger.Info("Wrote config", slog.String("path", path))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
