package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wattfeed/internal/models"
)

type fakeSource struct {
	rows    []models.FeatureRow
	columns []string
	err     error
	called  bool
}

func (f *fakeSource) Query(context.Context) ([]models.FeatureRow, []string, error) {
	f.called = true
	return f.rows, f.columns, f.err
}

type fakeUploader struct {
	paths []string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, localPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.paths = append(f.paths, localPath)
	return "mem://" + filepath.Base(localPath), nil
}

func viewColumns() []string {
	return append([]string{TargetColumn}, DefaultFeatureColumns...)
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 0, 30, 0, 0, time.FixedZone("CET", 3600))
}

func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{rows: hourlyRows(100), columns: viewColumns()}
	up := &fakeUploader{}

	p := NewPipeline(src, Options{Dir: dir, TestRatio: 0.2, Uploader: up, Now: fixedNow})
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100, result.Rows)
	assert.Equal(t, 80, result.TrainRows)
	assert.Equal(t, 20, result.TestRows)

	// run date is taken in UTC
	want := map[string]string{
		XTrain: filepath.Join(dir, "X_train_20260301.parquet"),
		XTest:  filepath.Join(dir, "X_test_20260301.parquet"),
		YTrain: filepath.Join(dir, "y_train_20260301.parquet"),
		YTest:  filepath.Join(dir, "y_test_20260301.parquet"),
	}
	assert.Equal(t, want, result.Artifacts)

	for name, path := range want {
		_, err := os.Stat(path)
		require.NoError(t, err, name)
	}

	n, cols := readLayout(t, want[XTrain])
	assert.EqualValues(t, 80, n)
	assertColumns(t, DefaultFeatureColumns, cols)

	n, cols = readLayout(t, want[YTest])
	assert.EqualValues(t, 20, n)
	assertColumns(t, []string{TargetColumn}, cols)

	assert.Equal(t, []string{want[XTrain], want[XTest], want[YTrain], want[YTest]}, up.paths)
	assert.Equal(t, "mem://y_test_20260301.parquet", result.Uploaded[YTest])
}

func TestPipelineDateStampOverride(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{rows: hourlyRows(10), columns: viewColumns()}

	result, err := NewPipeline(src, Options{Dir: dir, TestRatio: 0.2, DateStamp: "20250101"}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "X_test_20250101.parquet"), result.Artifacts[XTest])
	assert.Nil(t, result.Uploaded)
}

func TestPipelineFailures(t *testing.T) {
	queryErr := errors.New("connection refused")

	tests := []struct {
		name        string
		src         *fakeSource
		opts        Options
		wantErr     error
		wantQueried bool
	}{
		{
			name:    "leakage fails before query",
			src:     &fakeSource{rows: hourlyRows(10), columns: viewColumns()},
			opts:    Options{TestRatio: 0.2, Features: []string{"lag_1h", TargetColumn}},
			wantErr: ErrLeakage,
		},
		{
			name:        "empty view",
			src:         &fakeSource{columns: viewColumns()},
			opts:        Options{TestRatio: 0.2},
			wantErr:     ErrEmptyDataset,
			wantQueried: true,
		},
		{
			name:        "query error",
			src:         &fakeSource{err: queryErr},
			opts:        Options{TestRatio: 0.2},
			wantErr:     queryErr,
			wantQueried: true,
		},
		{
			name:        "feature missing from view",
			src:         &fakeSource{rows: hourlyRows(10), columns: []string{TargetColumn, "lag_1h"}},
			opts:        Options{TestRatio: 0.2},
			wantErr:     ErrMissingColumn,
			wantQueried: true,
		},
		{
			name:        "invalid ratio",
			src:         &fakeSource{rows: hourlyRows(10), columns: viewColumns()},
			opts:        Options{TestRatio: 1},
			wantErr:     ErrInvalidSplit,
			wantQueried: true,
		},
		{
			name: "unordered rows",
			src: func() *fakeSource {
				rows := hourlyRows(10)
				rows[3], rows[4] = rows[4], rows[3]
				return &fakeSource{rows: rows, columns: viewColumns()}
			}(),
			opts:        Options{TestRatio: 0.2},
			wantErr:     ErrUnordered,
			wantQueried: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.opts.Dir = dir

			_, err := NewPipeline(tt.src, tt.opts).Run(context.Background())
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantQueried, tt.src.called)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "no artifact may be written on failure")
		})
	}
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "y_test_20260301.parquet")
	require.NoError(t, os.WriteFile(path, []byte("PAR1"), 0o644))

	putter := &fakePutter{}
	u := NewS3UploaderWithClient(putter, "features", "exports/ch")

	loc, err := u.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "s3://features/exports/ch/y_test_20260301.parquet", loc)
	assert.Equal(t, "features", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "exports/ch/y_test_20260301.parquet", aws.ToString(putter.input.Key))
	assert.True(t, bytes.Equal([]byte("PAR1"), putter.body))

	_, err = u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.parquet"))
	require.Error(t, err)
}
