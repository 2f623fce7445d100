// Package importer bulk-loads the CSV fixtures shipped under static/data.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yamdb/internal/data/repository"

	"go.uber.org/zap"
)

// Summary reports one imported file.
type Summary struct {
	File     string
	Rows     int
	Inserted int64
}

type step struct {
	file string
	load func(ctx context.Context, records []record) (int64, error)
}

type Importer struct {
	repo repository.ImportRepository
	dir  string
	log  *zap.Logger
	now  func() time.Time
}

func New(repo repository.ImportRepository, dir string, log *zap.Logger) *Importer {
	return &Importer{
		repo: repo,
		dir:  dir,
		log:  log.With(zap.String("component", "importer")),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Run imports every fixture in dependency order and stops at the first failure.
func (im *Importer) Run(ctx context.Context) ([]Summary, error) {
	steps := []step{
		{"category.csv", im.loadCategories},
		{"genre.csv", im.loadGenres},
		{"users.csv", im.loadUsers},
		{"titles.csv", im.loadTitles},
		{"genre_title.csv", im.loadGenreTitles},
		{"review.csv", im.loadReviews},
		{"comments.csv", im.loadComments},
	}

	// All files must be present before anything is written.
	for _, s := range steps {
		path := filepath.Join(im.dir, s.file)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("file %s not found", path)
			}
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	summaries := make([]Summary, 0, len(steps))
	for _, s := range steps {
		path := filepath.Join(im.dir, s.file)

		records, err := readFile(path)
		if err != nil {
			return summaries, err
		}

		inserted, err := s.load(ctx, records)
		if err != nil {
			return summaries, fmt.Errorf("%s: %w", s.file, err)
		}

		summary := Summary{File: s.file, Rows: len(records), Inserted: inserted}
		summaries = append(summaries, summary)

		im.log.Info("CSV file imported",
			zap.String("file", s.file),
			zap.Int("rows", summary.Rows),
			zap.Int64("inserted", summary.Inserted),
			zap.Int64("skipped", int64(summary.Rows)-summary.Inserted),
		)
	}

	return summaries, nil
}

// record is one CSV row keyed by header name.
type record struct {
	line   int
	values map[string]string
}

func (r record) get(column string) string {
	return strings.TrimSpace(r.values[column])
}

func readFile(path string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

func parse(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file, header row expected")
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var records []record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		values := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(row) {
				values[column] = row[i]
			}
		}
		records = append(records, record{line: line, values: values})
	}

	return records, nil
}
