package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithComponent(t *testing.T) {
	log := Logger()
	entry := log.WithComponent("entsoe")
	require.Equal(t, "entsoe", entry.Entry.Data["component"])

	entry = entry.WithFields(Fields{"records": 2})
	require.Equal(t, "entsoe", entry.Entry.Data["component"])
	require.Equal(t, 2, entry.Entry.Data["records"])
}

func TestJSONOutput(t *testing.T) {
	log := Logger()
	var buf bytes.Buffer
	log.SetOutput(&buf)

	log.WithComponent("export").WithFields(Fields{"rows": 100}).Info("export complete")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "export complete", line["message"])
	require.Equal(t, "info", line["level"])
	require.Equal(t, "export", line["component"])
	require.EqualValues(t, 100, line["rows"])
	require.Contains(t, line, "timestamp")
}

func TestConfigure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		output  string
		maxAge  int
		wantErr bool
	}{
		{name: "JSON stdout", level: "debug", format: "json", output: "stdout"},
		{name: "Text stderr", level: "warn", format: "text", output: "stderr"},
		{name: "Rotated file", level: "info", format: "json", output: filepath.Join(t.TempDir(), "wattfeed.log"), maxAge: 7},
		{name: "Plain file", level: "info", format: "json", output: filepath.Join(t.TempDir(), "plain.log")},
		{name: "Invalid level", level: "loud", format: "json", output: "stdout", wantErr: true},
		{name: "Invalid format", level: "info", format: "xml", output: "stdout", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Logger().Configure(tt.level, tt.format, tt.output, tt.maxAge)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
