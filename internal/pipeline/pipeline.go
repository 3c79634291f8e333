// Package pipeline runs one parse job: source, parser, filter, rankings and export.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/cyra/weblog/internal/config"
	"github.com/cyra/weblog/internal/export"
	"github.com/cyra/weblog/internal/logging"
	"github.com/cyra/weblog/internal/metrics"
	"github.com/cyra/weblog/internal/parser"
	"github.com/cyra/weblog/internal/source"
	"github.com/cyra/weblog/internal/table"
)

// now is replaced in tests to pin export file names.
var now = time.Now

// Result summarizes one run.
type Result struct {
	Format     string
	Parsed     int
	Records    []parser.Record
	Rankings   []table.Ranking
	ExportPath string
}

// Run parses cfg.Input and applies the configured filter, rankings and export.
// The line source is closed before Run returns.
func Run(ctx context.Context, cfg *config.Config, logger *logging.Logger, m *metrics.Metrics) (*Result, error) {
	src, err := source.OpenPath(cfg.Input.Path)
	if err != nil {
		return nil, err
	}

	format := cfg.Input.Format
	obs := &observer{format: format, logger: logger, metrics: m}

	p, err := parser.New(format, &ctxSource{ctx: ctx, Lines: src}, parser.WithObserver(obs))
	if err != nil {
		src.Close()
		return nil, err
	}

	start := time.Now()
	var parsed []parser.Record
	for rec, err := range p.Records() {
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfg.Input.Path, err)
		}
		parsed = append(parsed, rec)
	}
	m.ObserveParse(format, time.Since(start))
	logger.Infof("parsed %d records from %s (%s)", len(parsed), cfg.Input.Path, format)

	res := &Result{Format: format, Parsed: len(parsed)}

	from, to, err := cfg.Filter.Range()
	if err != nil {
		return nil, err
	}
	res.Records, err = table.Apply(parsed, table.Filter{
		From:      from,
		To:        to,
		Match:     cfg.Filter.Match,
		StatusMin: cfg.Filter.StatusMin,
		StatusMax: cfg.Filter.StatusMax,
	})
	if err != nil {
		return nil, err
	}
	if len(res.Records) != len(parsed) {
		logger.Infof("filter kept %d of %d records", len(res.Records), len(parsed))
	}

	for _, col := range cfg.Stats.Columns {
		counts, err := table.Rank(res.Records, col)
		if err != nil {
			return nil, err
		}
		res.Rankings = append(res.Rankings, table.Ranking{Column: col, Counts: table.Top(counts, cfg.Stats.Top)})
	}

	if cfg.Export.Format != "" {
		f, err := export.ParseFormat(cfg.Export.Format)
		if err != nil {
			return nil, err
		}
		path, err := export.ToFile(cfg.Export.Dir, f, res.Records, now())
		if err != nil {
			logger.Errorf("export failed: %v", err)
			return nil, err
		}
		m.Exports.WithLabelValues(string(f)).Inc()
		logger.Infof("exported %d records to %s", len(res.Records), path)
		res.ExportPath = path
	}

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Errorf("write metrics textfile: %v", err)
		}
	}

	return res, nil
}

// ctxSource stops reading once ctx is done, so cancellation is seen on every
// line whether or not it matches.
type ctxSource struct {
	ctx context.Context
	source.Lines
}

func (s *ctxSource) Next() ([]byte, error) {
	if err := s.ctx.Err(); err != nil {
		return nil, err
	}
	return s.Lines.Next()
}

// observer feeds parser line outcomes into metrics and debug logs.
type observer struct {
	format  string
	logger  *logging.Logger
	metrics *metrics.Metrics
}

func (o *observer) LineParsed(line, records int) {
	o.metrics.Lines.WithLabelValues(o.format).Inc()
	if records == 0 {
		o.metrics.Dropped.WithLabelValues(o.format).Inc()
		o.logger.Debugf("line %d does not match %s format", line, o.format)
		return
	}
	o.metrics.Records.WithLabelValues(o.format).Add(float64(records))
}

func (o *observer) ParseFailed(err error) {
	o.metrics.Failures.WithLabelValues(o.format).Inc()
	o.logger.Errorf("parse aborted: %v", err)
}
