package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/manifoldco/promptui"
	"github.com/urfave/cli"

	"github.com/cyra/weblog/internal/config"
	"github.com/cyra/weblog/internal/export"
	"github.com/cyra/weblog/internal/logging"
	"github.com/cyra/weblog/internal/metrics"
	"github.com/cyra/weblog/internal/parser"
	"github.com/cyra/weblog/internal/pipeline"
	"github.com/cyra/weblog/internal/table"
)

var version = "dev" // Set via ldflags: -X main.version=v1.0.0

func main() {
	app := cli.NewApp()
	app.Name = "weblog"
	app.Usage = "Parse Apache, Nginx, IIS and Tomcat access logs into structured records"
	app.Version = version
	app.Commands = []cli.Command{
		{
			Name:   "parse",
			Usage:  "Parse a log file, then filter, rank and export the records",
			Flags:  parseFlags,
			Action: parseAction,
		},
		{
			Name:  "formats",
			Usage: "List the supported log formats",
			Action: func(c *cli.Context) error {
				for _, name := range parser.Formats() {
					fmt.Fprintln(c.App.Writer, name)
				}
				return nil
			},
		},
		{
			Name:  "watch",
			Usage: "Run the configured job and run it again whenever the config file changes",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "config, c",
					Usage: "Path to configuration file",
					Value: "/etc/weblog/config.yaml",
				},
			},
			Action: watchAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var parseFlags = []cli.Flag{
	cli.StringFlag{Name: "config, c", Usage: "Path to configuration file; flags override its values"},
	cli.StringFlag{Name: "input", Usage: `Log file to parse ("-" for stdin)`},
	cli.StringFlag{Name: "format, f", Usage: "Log format: " + strings.Join(parser.Formats(), ", ")},
	cli.BoolFlag{Name: "interactive, i", Usage: "Choose the log format from a list"},
	cli.StringFlag{Name: "from", Usage: "Keep records on or after this date (YYYY-MM-DD)"},
	cli.StringFlag{Name: "to", Usage: "Keep records on or before this date (YYYY-MM-DD)"},
	cli.StringSliceFlag{Name: "where", Usage: "Keep records where column=value (repeatable)"},
	cli.StringSliceFlag{Name: "top", Usage: "Print value counts for a column (repeatable)"},
	cli.IntFlag{Name: "limit", Usage: "Rows per value-count table"},
	cli.StringFlag{Name: "export", Usage: "Write the records to a csv or json file"},
	cli.StringFlag{Name: "out", Usage: "Directory for the export file"},
	cli.StringFlag{Name: "print", Usage: "Write the records to stdout as csv or json"},
	cli.StringFlag{Name: "metrics-textfile", Usage: "Write Prometheus metrics to this file after the run"},
	cli.IntFlag{Name: "status-min", Usage: "Keep records with a status code at or above this"},
	cli.IntFlag{Name: "status-max", Usage: "Keep records with a status code at or below this"},
	cli.StringFlag{Name: "level", Usage: "Log level", EnvVar: "WEBLOG_LOG_LEVEL"},
	cli.StringFlag{Name: "log-file", Usage: "Append logs to this file instead of stderr"},
}

func parseAction(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signalContext()
	defer cancel()

	res, err := pipeline.Run(ctx, cfg, logger, metrics.New())
	if err != nil {
		return err
	}

	if p := c.String("print"); p != "" {
		f, err := export.ParseFormat(p)
		if err != nil {
			return err
		}
		if err := export.Write(c.App.Writer, f, res.Records); err != nil {
			return err
		}
	}
	return report(c, res, logger)
}

func buildConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("input") {
		cfg.Input.Path = c.String("input")
	}
	if c.IsSet("format") {
		cfg.Input.Format = c.String("format")
	}
	if c.Bool("interactive") {
		format, err := selectFormat()
		if err != nil {
			return nil, err
		}
		cfg.Input.Format = format
	}
	if c.IsSet("from") {
		cfg.Filter.From = c.String("from")
	}
	if c.IsSet("to") {
		cfg.Filter.To = c.String("to")
	}
	for _, kv := range c.StringSlice("where") {
		col, val, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--where %q: want column=value", kv)
		}
		if cfg.Filter.Match == nil {
			cfg.Filter.Match = make(map[string]string)
		}
		cfg.Filter.Match[col] = val
	}
	if cols := c.StringSlice("top"); len(cols) > 0 {
		cfg.Stats.Columns = cols
	}
	if c.IsSet("limit") {
		cfg.Stats.Top = c.Int("limit")
	}
	if c.IsSet("export") {
		cfg.Export.Format = c.String("export")
	}
	if c.IsSet("out") {
		cfg.Export.Dir = c.String("out")
	}
	if c.IsSet("metrics-textfile") {
		cfg.Metrics.Textfile = c.String("metrics-textfile")
	}
	if c.IsSet("status-min") {
		cfg.Filter.StatusMin = c.Int("status-min")
	}
	if c.IsSet("status-max") {
		cfg.Filter.StatusMax = c.Int("status-max")
	}
	if c.IsSet("level") {
		cfg.Logging.Level = c.String("level")
	}
	if c.IsSet("log-file") {
		cfg.Logging.File = c.String("log-file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func selectFormat() (string, error) {
	p := promptui.Select{
		Label: "Select log format",
		Items: parser.Formats(),
	}
	_, res, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return res, nil
}

// newLogger applies cfg.Logging. The returned close function releases the log file,
// if one was configured.
func newLogger(cfg *config.Config) (*logging.Logger, func(), error) {
	logger := logging.NewLogger()
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, nil, err
	}
	logger.SetJSON(cfg.Logging.JSON)

	closeFn := func() {}
	if cfg.Logging.File != "" {
		f, err := logger.SetFile(cfg.Logging.File)
		if err != nil {
			return nil, nil, err
		}
		closeFn = func() { f.Close() }
	}
	return logger, closeFn, nil
}

func report(c *cli.Context, res *pipeline.Result, logger *logging.Logger) error {
	if len(res.Records) == 0 {
		logger.Warnf("no matching log entries")
	}
	for _, r := range res.Rankings {
		fmt.Fprintln(c.App.Writer)
		if err := table.WriteRanks(c.App.Writer, r); err != nil {
			return err
		}
	}
	if res.ExportPath != "" {
		fmt.Fprintln(c.App.Writer, res.ExportPath)
	}
	return nil
}

func watchAction(c *cli.Context) error {
	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Infof("weblog %s watching %s", version, path)

	ctx, cancel := signalContext()
	defer cancel()

	store := config.NewStore(cfg)
	reload := make(chan struct{}, 1)
	stop, err := config.WatchFile(path, store, logger, func(*config.Config) {
		select {
		case reload <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return err
	}
	defer stop()

	m := metrics.New()
	for {
		current := store.Current()
		if err := logger.SetLevel(current.Logging.Level); err != nil {
			logger.Errorf("%v", err)
		}
		logger.SetJSON(current.Logging.JSON)

		res, err := pipeline.Run(ctx, current, logger, m)
		if err != nil {
			logger.Errorf("run failed: %v", err)
		} else if err := report(c, res, logger); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-reload:
		}
	}
}

// signalContext returns a context that is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
