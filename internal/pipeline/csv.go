package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/kkteam/tripflow/internal/model"
)

// RecordSource yields raw records one at a time. Next returns io.EOF when
// the source is exhausted.
type RecordSource interface {
	Next() (model.RawRecord, error)
}

// CSVSource reads raw records from a header-bearing CSV file. Rows shorter
// than the header leave the trailing fields empty; the validator reports
// those as missing values.
type CSVSource struct {
	file   *os.File
	reader *csv.Reader
	header []string
}

// OpenCSV opens the file and consumes its header row.
func OpenCSV(path string) (*CSVSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		_ = file.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("input file %s is empty", path)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	return &CSVSource{
		file:   file,
		reader: reader,
		header: header,
	}, nil
}

// Next returns the next row keyed by header name.
func (s *CSVSource) Next() (model.RawRecord, error) {
	row, err := s.reader.Read()
	if err != nil {
		return nil, err
	}

	rec := make(model.RawRecord, len(s.header))
	for i, name := range s.header {
		if i < len(row) {
			rec[name] = row[i]
		} else {
			rec[name] = ""
		}
	}
	return rec, nil
}

// Close releases the underlying file.
func (s *CSVSource) Close() error {
	return s.file.Close()
}
