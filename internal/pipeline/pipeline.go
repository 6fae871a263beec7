// Package pipeline chains the report stages: load, aggregate, rank, analyze,
// write. One Run is strictly sequential with no internal parallelism; a
// caller wanting bounded execution time or serialization of runs against the
// same artifact must enforce both externally.
package pipeline

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/salesops/georeport/internal/artifact"
	"github.com/salesops/georeport/internal/report"
	"github.com/salesops/georeport/internal/telemetry"
)

// ErrNoQuarters indicates the selected table yielded no quarter labels.
var ErrNoQuarters = errors.New("pipeline: no quarter data found in the input workbook")

// Result describes a completed run.
type Result struct {
	ArtifactPath string
	Timestamp    string
	Sheets       []string
	Records      int
}

// Pipeline wires the loader, aggregator, ranker, percent analyzer, and
// report writer behind a single entry point.
type Pipeline struct {
	cfg    report.Config
	loader *report.Loader
	writer *artifact.Writer
	hooks  *telemetry.Hooks
}

// New constructs a Pipeline around an immutable configuration.
func New(cfg report.Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		loader: report.NewLoader(cfg),
		writer: artifact.NewWriter(cfg),
		hooks:  telemetry.NewHooks(logger),
	}
}

// WithWriter substitutes the report writer, for tests that pin the
// generation clock.
func (p *Pipeline) WithWriter(w *artifact.Writer) *Pipeline {
	p.writer = w
	return p
}

// Run processes one input workbook and persists the report artifact into
// outputDir. The input filename is validated before any parsing; a failure
// at any stage aborts the remaining stages.
func (p *Pipeline) Run(inputPath, outputDir string) (Result, error) {
	started := time.Now()
	p.hooks.OnRunStart(inputPath)

	timestamp, err := report.ExtractTimestamp(inputPath)
	if err != nil {
		return Result{}, err
	}

	loadStart := time.Now()
	quarters, records, err := p.loader.Load(inputPath)
	p.hooks.OnStage("load", loadStart, err)
	if err != nil {
		return Result{}, err
	}
	if len(quarters) == 0 {
		return Result{}, ErrNoQuarters
	}

	aggStart := time.Now()
	allIdx := report.Aggregate(p.cfg, records, report.FilterAll)
	filteredIdx := report.Aggregate(p.cfg, records, report.FilterOffering)
	p.hooks.OnStage("aggregate", aggStart, nil)

	rankStart := time.Now()
	res := artifact.Results{
		SourceName:     filepath.Base(inputPath),
		Quarters:       quarters,
		AllTop:         report.TopPerformers(p.cfg, allIdx, quarters),
		FilteredTop:    report.TopPerformers(p.cfg, filteredIdx, quarters),
		AllShares:      report.AnalyzeShares(p.cfg, allIdx, quarters),
		FilteredShares: report.AnalyzeShares(p.cfg, filteredIdx, quarters),
	}
	p.hooks.OnStage("rank", rankStart, nil)

	outPath := filepath.Join(outputDir, report.ResultFilename(timestamp))
	writeStart := time.Now()
	err = p.writer.Write(outPath, res)
	p.hooks.OnStage("write", writeStart, err)
	if err != nil {
		return Result{}, err
	}

	p.hooks.OnRunComplete(outPath, len(records), started)
	return Result{
		ArtifactPath: outPath,
		Timestamp:    timestamp,
		Sheets:       p.cfg.OwnedSheets(),
		Records:      len(records),
	}, nil
}
