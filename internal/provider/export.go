package provider

import (
	"context"

	"wattfeed/internal/export"
	"wattfeed/internal/models"
)

// ExportName is the name of the feature export provider
const ExportName = "export"

// Exporter produces the train/test artifacts
type Exporter interface {
	Run(ctx context.Context) (*export.Result, error)
}

// ExportProvider runs the feature export
type ExportProvider struct {
	BaseProvider
	exporter Exporter
}

// NewExportProvider creates the export provider
func NewExportProvider(config Config, exporter Exporter) *ExportProvider {
	return &ExportProvider{
		BaseProvider: NewBaseProvider(ExportName, config),
		exporter:     exporter,
	}
}

// Run exports the feature view; Fetched is the number of rows read. A
// failed upload still reports the artifacts written before it.
func (p *ExportProvider) Run(ctx context.Context) (report models.RunReport, err error) {
	report = newReport(p.Name())
	defer p.finish(&report)

	result, err := p.exporter.Run(ctx)
	if result == nil {
		return report, err
	}

	report.Fetched = result.Rows
	report.Artifacts = make(map[string]string, len(result.Artifacts))
	for name, path := range result.Artifacts {
		report.Artifacts[name] = path
	}
	for name, loc := range result.Uploaded {
		report.Artifacts[name+"_remote"] = loc
	}
	return report, err
}
