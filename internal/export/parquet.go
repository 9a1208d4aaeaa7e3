package export

import (
	"encoding/json"
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"wattfeed/internal/models"
)

type schemaNode struct {
	Tag    string        `json:"Tag"`
	Fields []*schemaNode `json:"Fields,omitempty"`
}

// ParquetWriter writes feature rows as flat parquet files with one
// optional DOUBLE column per name, in the given order
type ParquetWriter struct {
	Parallelism int64
	Compression parquet.CompressionCodec
}

// NewParquetWriter creates a writer using SNAPPY compression
func NewParquetWriter() *ParquetWriter {
	return &ParquetWriter{
		Parallelism: 1,
		Compression: parquet.CompressionCodec_SNAPPY,
	}
}

func buildSchema(columns []string) (string, error) {
	root := &schemaNode{Tag: "name=parquet_go_root, repetitiontype=REQUIRED"}
	for _, col := range columns {
		root.Fields = append(root.Fields, &schemaNode{
			Tag: fmt.Sprintf("name=%s, inname=%s, type=DOUBLE, repetitiontype=OPTIONAL",
				col, common.StringToVariableName(col)),
		})
	}
	b, err := json.Marshal(root)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Write creates path and stores the selected columns of rows. Columns
// missing from a row are written as null.
func (w *ParquetWriter) Write(path string, columns []string, rows []models.FeatureRow) error {
	if len(columns) == 0 {
		return fmt.Errorf("no columns for %s", path)
	}

	schema, err := buildSchema(columns)
	if err != nil {
		return fmt.Errorf("failed to build parquet schema: %w", err)
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}

	pw, err := writer.NewJSONWriter(schema, fw, w.Parallelism)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = w.Compression

	record := make(map[string]*float64, len(columns))
	for i, row := range rows {
		for _, col := range columns {
			record[col] = row.Value(col)
		}
		line, err := json.Marshal(record)
		if err != nil {
			fw.Close()
			return fmt.Errorf("failed to encode row %d: %w", i, err)
		}
		if err := pw.Write(string(line)); err != nil {
			fw.Close()
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return fw.Close()
}
