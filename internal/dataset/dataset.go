// ABOUTME: Dataset file access for the movie plot CSV
// ABOUTME: Reads raw bytes once so parsing and fingerprinting see the same content
package dataset

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harper/plotsearch/internal/models"
)

// Column names of the cleaned dataset
const (
	TitleColumn = "title"
	PlotColumn  = "plot"
)

// Read returns the raw dataset bytes. Missing or unreadable files wrap
// models.ErrDatasetNotFound.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatasetNotFound, err)
	}
	return data, nil
}

// Fingerprint hashes the whole file. Any byte change yields a new fingerprint.
func Fingerprint(data []byte, model string) models.Fingerprint {
	sum := sha256.Sum256(data)
	return models.Fingerprint{
		Dataset: hex.EncodeToString(sum[:]),
		Model:   model,
	}
}

// Parse decodes CSV bytes into movies, preserving row order. The header
// must contain title and plot columns (case-insensitive); other columns
// are ignored. An empty file is an empty dataset.
func Parse(data []byte) ([]models.Movie, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []models.Movie{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	titleIdx, plotIdx, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	movies := []models.Movie{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		movies = append(movies, models.Movie{
			Title: cell(record, titleIdx),
			Plot:  cell(record, plotIdx),
		})
	}

	return movies, nil
}

// Load reads and parses the dataset at path
func Load(path string) ([]models.Movie, error) {
	data, err := Read(path)
	if err != nil {
		return nil, err
	}
	movies, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return movies, nil
}

// Write encodes movies as a title,plot CSV
func Write(w io.Writer, movies []models.Movie) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{TitleColumn, PlotColumn}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, m := range movies {
		if err := writer.Write([]string{m.Title, m.Plot}); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func resolveColumns(header []string) (int, int, error) {
	titleIdx, plotIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(cleanCell(name)) {
		case TitleColumn:
			if titleIdx < 0 {
				titleIdx = i
			}
		case PlotColumn:
			if plotIdx < 0 {
				plotIdx = i
			}
		}
	}

	var missing []string
	if titleIdx < 0 {
		missing = append(missing, TitleColumn)
	}
	if plotIdx < 0 {
		missing = append(missing, PlotColumn)
	}
	if len(missing) > 0 {
		return -1, -1, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return titleIdx, plotIdx, nil
}

func cell(record []string, idx int) string {
	if idx >= len(record) {
		return ""
	}
	return record[idx]
}

func cleanCell(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "\ufeff")
}
