package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/okian/medalcast/internal/domain/model"
)

// CSV reads records from a comma-separated file with a header row.
type CSV struct {
	path string
}

// NewCSV creates a CSV source.
func NewCSV(path string) *CSV { return &CSV{path: path} }

// Describe implements Source.
func (c *CSV) Describe() string { return "csv:" + c.path }

// Load implements Source.
func (c *CSV) Load(ctx context.Context) ([]model.MedalRecord, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found", ErrDataUnavailable, c.path)
		}
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	defer f.Close()
	return readCSV(ctx, f)
}

func readCSV(ctx context.Context, r io.Reader) ([]model.MedalRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrDataUnavailable)
		}
		return nil, fmt.Errorf("%w: header: %w", ErrDataUnavailable, err)
	}
	dec := newDecoder(header)

	var out []model.MedalRecord
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				// keep the row so the aggregator counts it as dropped
				out = append(out, model.MedalRecord{})
				continue
			}
			return nil, fmt.Errorf("%w: line %d: %w", ErrDataUnavailable, line, err)
		}
		out = append(out, dec.decode(row))
	}
	return out, nil
}
