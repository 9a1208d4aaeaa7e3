// Package export turns the training feature view into chronological
// train/test parquet artifacts
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wattfeed/internal/logger"
	"wattfeed/internal/models"
)

// Artifact names, in the order they are written
const (
	XTrain = "X_train"
	XTest  = "X_test"
	YTrain = "y_train"
	YTest  = "y_test"
)

// Source yields the feature view ordered by time ascending
type Source interface {
	Query(ctx context.Context) ([]models.FeatureRow, []string, error)
}

// Options configures a Pipeline
type Options struct {
	Dir       string
	TestRatio float64
	// DateStamp is YYYYMMDD; empty means the run date in UTC
	DateStamp string
	Features  []string
	Target    string
	// Uploader is optional
	Uploader Uploader
	Now      func() time.Time
}

// Result describes a finished export
type Result struct {
	Rows      int
	TrainRows int
	TestRows  int
	// Artifacts maps artifact name to local path
	Artifacts map[string]string
	// Uploaded maps artifact name to remote location
	Uploaded map[string]string
}

// Pipeline runs VALIDATE_NO_LEAKAGE, QUERY, SPLIT and SAVE in that order
type Pipeline struct {
	source Source
	writer *ParquetWriter
	opts   Options
	log    *logger.Entry
}

// NewPipeline fills unset options with defaults
func NewPipeline(source Source, opts Options) *Pipeline {
	if len(opts.Features) == 0 {
		opts.Features = FeatureColumns()
	}
	if opts.Target == "" {
		opts.Target = TargetColumn
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{
		source: source,
		writer: NewParquetWriter(),
		opts:   opts,
		log:    logger.GetLogger().WithComponent("export"),
	}
}

// Run executes the export. Nothing is queried when the leakage check
// fails, and nothing is written when the split fails.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := ValidateNoLeakage(p.opts.Features, p.opts.Target); err != nil {
		return nil, err
	}

	rows, columns, err := p.source.Query(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature view: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	if err := requireColumns(columns, append([]string{p.opts.Target}, p.opts.Features...)); err != nil {
		return nil, err
	}
	p.log.WithFields(logger.Fields{"rows": len(rows), "columns": len(columns)}).Info("Feature view loaded")

	if err := CheckAscending(rows); err != nil {
		return nil, err
	}
	train, test, err := SplitChronological(rows, p.opts.TestRatio)
	if err != nil {
		return nil, err
	}
	p.log.WithFields(logger.Fields{
		"train_rows":  len(train),
		"test_rows":   len(test),
		"train_until": train[len(train)-1].Time.Format(time.RFC3339),
		"test_from":   test[0].Time.Format(time.RFC3339),
	}).Info("Chronological split done")

	artifacts, err := p.save(train, test)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Rows:      len(rows),
		TrainRows: len(train),
		TestRows:  len(test),
		Artifacts: artifacts,
	}

	if p.opts.Uploader != nil {
		result.Uploaded = make(map[string]string, len(artifacts))
		for _, name := range []string{XTrain, XTest, YTrain, YTest} {
			loc, err := p.opts.Uploader.Upload(ctx, artifacts[name])
			if err != nil {
				return result, err
			}
			result.Uploaded[name] = loc
		}
	}

	p.log.WithFields(logger.Fields{"artifacts": result.Artifacts}).Info("Export finished")
	return result, nil
}

func (p *Pipeline) stamp() string {
	if p.opts.DateStamp != "" {
		return p.opts.DateStamp
	}
	return p.opts.Now().UTC().Format("20060102")
}

func (p *Pipeline) save(train, test []models.FeatureRow) (map[string]string, error) {
	if err := os.MkdirAll(p.opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}

	stamp := p.stamp()
	target := []string{p.opts.Target}
	plan := []struct {
		name    string
		columns []string
		rows    []models.FeatureRow
	}{
		{XTrain, p.opts.Features, train},
		{XTest, p.opts.Features, test},
		{YTrain, target, train},
		{YTest, target, test},
	}

	artifacts := make(map[string]string, len(plan))
	for _, a := range plan {
		path := filepath.Join(p.opts.Dir, fmt.Sprintf("%s_%s.parquet", a.name, stamp))
		if err := p.writer.Write(path, a.columns, a.rows); err != nil {
			return nil, err
		}
		artifacts[a.name] = path
		p.log.WithFields(logger.Fields{"artifact": a.name, "path": path, "rows": len(a.rows)}).Debug("Artifact written")
	}
	return artifacts, nil
}

func requireColumns(have, want []string) error {
	set := make(map[string]struct{}, len(have))
	for _, c := range have {
		set[c] = struct{}{}
	}
	for _, c := range want {
		if _, ok := set[c]; !ok {
			return fmt.Errorf("%w: '%s'", ErrMissingColumn, c)
		}
	}
	return nil
}
