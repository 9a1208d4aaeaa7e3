package provider

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wattfeed/internal/collector"
	"wattfeed/internal/export"
	"wattfeed/internal/models"
)

type fakeCollector struct {
	records []models.HydroRecord
	err     error
}

func (f *fakeCollector) Name() string { return "bafu" }

func (f *fakeCollector) Fetch(context.Context) ([]byte, error) { return []byte("{}"), f.err }

func (f *fakeCollector) Parse([]byte) ([]models.HydroRecord, error) { return f.records, nil }

type fakeStore struct {
	got []models.HydroRecord
	err error
}

func (f *fakeStore) Upsert(_ context.Context, records []models.HydroRecord) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.got = append(f.got, records...)
	return int64(len(records)), nil
}

type fakeExporter struct {
	result *export.Result
	err    error
}

func (f *fakeExporter) Run(context.Context) (*export.Result, error) { return f.result, f.err }

type fakeRecorder struct {
	mu   sync.Mutex
	logs []*models.RunLog
	err  error
}

func (f *fakeRecorder) Create(_ context.Context, log *models.RunLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logs = append(f.logs, log)
	return f.err
}

// stubProvider blocks until release is closed when set
type stubProvider struct {
	BaseProvider
	err     error
	started chan struct{}
	release chan struct{}
}

func newStub(name string, enabled bool, err error) *stubProvider {
	return &stubProvider{BaseProvider: NewBaseProvider(name, Config{Schedule: "0 6 * * *", Enabled: enabled}), err: err}
}

func (s *stubProvider) Run(context.Context) (models.RunReport, error) {
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	return models.RunReport{Name: s.Name(), Fetched: 1}, s.err
}

func TestCollectorProvider(t *testing.T) {
	ts := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	level := 245.3

	t.Run("stores validated records", func(t *testing.T) {
		store := &fakeStore{}
		c := &fakeCollector{records: []models.HydroRecord{
			{Time: ts, StationID: "2018", LevelMASL: &level},
			{Time: ts.Add(time.Hour), StationID: "2018"},
		}}

		p := NewCollectorProvider[models.HydroRecord](Config{Enabled: true}, c, store)
		assert.Equal(t, "bafu", p.Name())

		report, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, report.Fetched)
		assert.EqualValues(t, 2, report.Inserted)
		assert.Len(t, store.got, 2)
		assert.NotEmpty(t, report.RunID.String())
		assert.False(t, report.StartedAt.IsZero())
	})

	t.Run("invalid record blocks the write", func(t *testing.T) {
		store := &fakeStore{}
		c := &fakeCollector{records: []models.HydroRecord{{Time: ts}, {StationID: "2018"}}}

		_, err := NewCollectorProvider[models.HydroRecord](Config{Enabled: true}, c, store).Run(context.Background())
		require.ErrorIs(t, err, collector.ErrValidation)
		assert.Empty(t, store.got)
	})

	t.Run("fetch error", func(t *testing.T) {
		fetchErr := errors.New("boom")
		store := &fakeStore{}
		_, err := NewCollectorProvider[models.HydroRecord](Config{Enabled: true}, &fakeCollector{err: fetchErr}, store).Run(context.Background())
		require.ErrorIs(t, err, fetchErr)
		assert.Empty(t, store.got)
	})

	t.Run("store error", func(t *testing.T) {
		storeErr := errors.New("rolled back")
		c := &fakeCollector{records: []models.HydroRecord{{Time: ts, StationID: "2018"}}}
		report, err := NewCollectorProvider[models.HydroRecord](Config{Enabled: true}, c, &fakeStore{err: storeErr}).Run(context.Background())
		require.ErrorIs(t, err, storeErr)
		assert.Equal(t, 1, report.Fetched)
		assert.Zero(t, report.Inserted)
	})
}

func TestExportProvider(t *testing.T) {
	exp := &fakeExporter{result: &export.Result{
		Rows:      100,
		TrainRows: 80,
		TestRows:  20,
		Artifacts: map[string]string{export.XTrain: "/tmp/X_train_20260301.parquet"},
		Uploaded:  map[string]string{export.XTrain: "s3://b/X_train_20260301.parquet"},
	}}

	p := NewExportProvider(Config{Enabled: true}, exp)
	assert.Equal(t, ExportName, p.Name())

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100, report.Fetched)
	assert.Equal(t, "/tmp/X_train_20260301.parquet", report.Artifacts[export.XTrain])
	assert.Equal(t, "s3://b/X_train_20260301.parquet", report.Artifacts[export.XTrain+"_remote"])

	_, err = NewExportProvider(Config{Enabled: true}, &fakeExporter{err: export.ErrEmptyDataset}).Run(context.Background())
	require.ErrorIs(t, err, export.ErrEmptyDataset)
}

func TestExportProviderUploadFailureKeepsLocalArtifacts(t *testing.T) {
	uploadErr := errors.New("s3 unavailable")
	exp := &fakeExporter{
		result: &export.Result{
			Rows:      100,
			Artifacts: map[string]string{export.XTrain: "/tmp/X_train_20260301.parquet", export.YTest: "/tmp/y_test_20260301.parquet"},
			Uploaded:  map[string]string{export.XTrain: "s3://b/X_train_20260301.parquet"},
		},
		err: uploadErr,
	}

	report, err := NewExportProvider(Config{Enabled: true}, exp).Run(context.Background())
	require.ErrorIs(t, err, uploadErr)
	assert.Equal(t, 100, report.Fetched)
	assert.Equal(t, map[string]string{
		export.XTrain:             "/tmp/X_train_20260301.parquet",
		export.YTest:              "/tmp/y_test_20260301.parquet",
		export.XTrain + "_remote": "s3://b/X_train_20260301.parquet",
	}, report.Artifacts)

	rec := &fakeRecorder{}
	m := NewManager()
	m.SetRecorder(rec)
	m.RegisterProvider(NewExportProvider(Config{Enabled: true}, exp))
	_, err = m.RunProvider(context.Background(), ExportName)
	require.ErrorIs(t, err, uploadErr)
	require.Len(t, rec.logs, 1)
	assert.Equal(t, models.RunFailed, rec.logs[0].Status)
	assert.Equal(t, "/tmp/y_test_20260301.parquet", rec.logs[0].Artifacts[export.YTest])
}

func TestManagerRunProvider(t *testing.T) {
	m := NewManager()
	m.RegisterProvider(newStub("entsoe", true, nil))
	m.RegisterProvider(newStub("ekz", false, nil))

	tests := []struct {
		name    string
		run     string
		wantErr error
	}{
		{name: "enabled", run: "entsoe"},
		{name: "disabled", run: "ekz", wantErr: ErrProviderDisabled},
		{name: "unknown", run: "nordpool", wantErr: ErrProviderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := m.RunProvider(context.Background(), tt.run)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.run, report.Name)
		})
	}

	info := m.Info()
	require.Len(t, info, 2)
	assert.Equal(t, models.ProviderInfo{Name: "entsoe", Schedule: "0 6 * * *", Enabled: true}, info[0])
	assert.Len(t, m.Providers(), 2)
}

func TestManagerRejectsConcurrentRun(t *testing.T) {
	m := NewManager()
	slow := newStub("openmeteo", true, nil)
	slow.started = make(chan struct{})
	slow.release = make(chan struct{})
	m.RegisterProvider(slow)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := m.RunProvider(context.Background(), "openmeteo")
		assert.NoError(t, err)
	}()

	<-slow.started
	_, err := m.RunProvider(context.Background(), "openmeteo")
	require.ErrorIs(t, err, ErrProviderBusy)

	close(slow.release)
	wg.Wait()
}

func TestManagerTryStart(t *testing.T) {
	m := NewManager()
	m.RegisterProvider(newStub("ekz", true, nil))
	m.RegisterProvider(newStub("bafu", false, nil))

	run, err := m.TryStart("ekz")
	require.NoError(t, err)
	assert.True(t, m.Running("ekz"))

	_, err = m.TryStart("ekz")
	require.ErrorIs(t, err, ErrProviderBusy)
	_, err = m.RunProvider(context.Background(), "ekz")
	require.ErrorIs(t, err, ErrProviderBusy)

	report, err := run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ekz", report.Name)
	assert.False(t, m.Running("ekz"))

	run, err = m.TryStart("ekz")
	require.NoError(t, err)
	_, err = run(context.Background())
	require.NoError(t, err)

	_, err = m.TryStart("bafu")
	require.ErrorIs(t, err, ErrProviderDisabled)
	_, err = m.TryStart("nordpool")
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestManagerRunAll(t *testing.T) {
	errA := errors.New("entsoe down")
	errB := errors.New("bafu down")

	m := NewManager()
	m.RegisterProvider(newStub("entsoe", true, errA))
	m.RegisterProvider(newStub("openmeteo", true, nil))
	m.RegisterProvider(newStub("bafu", true, errB))

	reports, err := m.RunAll(context.Background(), []string{"entsoe", "openmeteo", "bafu"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	require.Len(t, reports, 3)
	assert.Equal(t, "openmeteo", reports[1].Name)

	reports, err = m.RunAll(context.Background(), []string{"openmeteo"})
	require.NoError(t, err)
	assert.Equal(t, 1, reports[0].Fetched)
}

func TestManagerRecordsRuns(t *testing.T) {
	boom := errors.New("ekz down")

	tests := []struct {
		name       string
		runErr     error
		recordErr  error
		wantStatus models.RunStatus
	}{
		{name: "success", wantStatus: models.RunSucceeded},
		{name: "failure", runErr: boom, wantStatus: models.RunFailed},
		{name: "recorder error does not fail the run", recordErr: errors.New("db down"), wantStatus: models.RunSucceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecorder{err: tt.recordErr}
			m := NewManager()
			m.SetRecorder(rec)
			m.RegisterProvider(newStub("ekz", true, tt.runErr))

			_, err := m.RunProvider(context.Background(), "ekz")
			if tt.runErr != nil {
				require.ErrorIs(t, err, tt.runErr)
			} else {
				require.NoError(t, err)
			}

			require.Len(t, rec.logs, 1)
			got := rec.logs[0]
			assert.Equal(t, "ekz", got.Name)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, 1, got.Fetched)
			assert.NotEqual(t, uuid.Nil, got.RunID)
			assert.False(t, got.StartedAt.IsZero())
			if tt.runErr != nil {
				require.NotNil(t, got.Error)
				assert.Equal(t, tt.runErr.Error(), *got.Error)
			} else {
				assert.Nil(t, got.Error)
			}
		})
	}

	t.Run("rejected runs are not recorded", func(t *testing.T) {
		rec := &fakeRecorder{}
		m := NewManager()
		m.SetRecorder(rec)
		m.RegisterProvider(newStub("bafu", false, nil))

		_, err := m.RunProvider(context.Background(), "bafu")
		require.ErrorIs(t, err, ErrProviderDisabled)
		assert.Empty(t, rec.logs)
	})
}

func TestManagerSchedule(t *testing.T) {
	t.Run("enabled providers only", func(t *testing.T) {
		m := NewManager()
		m.RegisterProvider(newStub("entsoe", true, nil))
		m.RegisterProvider(newStub("ekz", false, nil))
		require.NoError(t, m.Schedule(context.Background()))
		assert.Equal(t, 1, m.Entries())
	})

	t.Run("missing schedule", func(t *testing.T) {
		m := NewManager()
		p := newStub("entsoe", true, nil)
		p.config.Schedule = ""
		m.RegisterProvider(p)
		require.Error(t, m.Schedule(context.Background()))
	})

	t.Run("invalid schedule", func(t *testing.T) {
		m := NewManager()
		p := newStub("entsoe", true, nil)
		p.config.Schedule = "0 0 6 * * *"
		m.RegisterProvider(p)
		require.Error(t, m.Schedule(context.Background()))
	})

	t.Run("scheduler stops with context", func(t *testing.T) {
		m := NewManager()
		m.RegisterProvider(newStub("entsoe", true, nil))

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- m.StartScheduler(ctx) }()
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("scheduler did not stop")
		}
	})
}
