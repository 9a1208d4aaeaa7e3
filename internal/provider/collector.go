package provider

import (
	"context"

	"wattfeed/internal/collector"
	"wattfeed/internal/models"
	"wattfeed/internal/repository"
)

// CollectorProvider runs one feed: fetch, parse, validate, then upsert
type CollectorProvider[R models.Record] struct {
	BaseProvider
	collector collector.Collector[R]
	store     repository.Upserter[R]
}

// NewCollectorProvider names the provider after its collector
func NewCollectorProvider[R models.Record](config Config, c collector.Collector[R], store repository.Upserter[R]) *CollectorProvider[R] {
	return &CollectorProvider[R]{
		BaseProvider: NewBaseProvider(c.Name(), config),
		collector:    c,
		store:        store,
	}
}

// Run fetches the feed and stores every validated record. Nothing is
// written when any phase before the upsert fails.
func (p *CollectorProvider[R]) Run(ctx context.Context) (report models.RunReport, err error) {
	report = newReport(p.Name())
	defer p.finish(&report)

	records, err := collector.Run(ctx, p.collector)
	if err != nil {
		return report, err
	}
	report.Fetched = len(records)

	inserted, err := p.store.Upsert(ctx, records)
	if err != nil {
		return report, err
	}
	report.Inserted = inserted

	return report, nil
}
