package repository

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"VolDash/internal/domain/models"
	domrepo "VolDash/internal/domain/repository"
	applogger "VolDash/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// PathFunc maps a table name to the file backing it.
type PathFunc func(name models.TableName) string

// CSVTableStore implements TableStore over comma separated files with a
// header row.
type CSVTableStore struct {
	path    PathFunc
	l       *applogger.Logger
	metrics domrepo.Metrics
}

func NewCSVTableStore(path PathFunc, l *applogger.Logger, m domrepo.Metrics) *CSVTableStore {
	if l == nil {
		l = applogger.Nop()
	}
	return &CSVTableStore{path: path, l: l, metrics: m}
}

// Load reads one table. A missing file yields *models.MissingFileError and a
// header without a required column yields *models.MissingColumnError.
func (s *CSVTableStore) Load(ctx context.Context, name models.TableName) (*models.Table, error) {
	start := time.Now()
	path := s.path(name)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.l.Error("table file missing",
				applogger.String("table", string(name)),
				applogger.String("path", path),
			)
			return nil, &models.MissingFileError{Table: name, Path: path}
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTable(ctx, name, f)
	if err != nil {
		s.l.Error("table load error",
			applogger.String("table", string(name)),
			applogger.String("path", path),
			applogger.Error(err),
		)
		return nil, err
	}
	t.Path = path

	if s.metrics != nil {
		s.metrics.RecordTableLoaded(string(name), t.Len(), time.Since(start))
	}
	s.l.Debug("table header",
		applogger.String("table", string(name)),
		applogger.Strings("columns", t.Columns),
	)
	s.l.Info("table loaded",
		applogger.String("table", string(name)),
		applogger.String("path", path),
		applogger.Int("rows", t.Len()),
		applogger.Int("columns", len(t.Columns)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return t, nil
}

// LoadAll loads every table concurrently. The first failure cancels the rest.
func (s *CSVTableStore) LoadAll(ctx context.Context) (*models.Tables, error) {
	loaded := make([]*models.Table, len(models.AllTables))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range models.AllTables {
		g.Go(func() error {
			t, err := s.Load(gctx, name)
			if err != nil {
				return err
			}
			loaded[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return models.NewTables(loaded...), nil
}

// ReadTable parses CSV content into a table. Rows keep their original order
// and string values; short rows map the missing trailing columns to "".
// The table's Checksum is the SHA-256 of the content.
func ReadTable(ctx context.Context, name models.TableName, r io.Reader) (*models.Table, error) {
	h := sha256.New()
	cr := csv.NewReader(io.TeeReader(r, h))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		// No header at all: an empty table, same as a header with no rows.
		return &models.Table{Name: name, Checksum: hex.EncodeToString(h.Sum(nil))}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("table %s: read header: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &models.Table{Name: name, Columns: header}
	required := models.RequiredColumns(name)
	for _, col := range required {
		if !t.HasColumn(col) {
			return nil, &models.MissingColumnError{Table: name, Column: col}
		}
	}
	keyed := append([]string{models.ColTicker, models.ColExpiry, models.ColData}, required...)
	if amb := models.AmbiguousColumns(header, keyed); len(amb) > 0 {
		for _, col := range keyed {
			if hs, ok := amb[col]; ok {
				return nil, &models.AmbiguousColumnError{Table: name, Column: col, Headers: hs}
			}
		}
	}

	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("table %s: line %d: %w", name, line, err)
		}
		rec := make(models.Record, len(header))
		for i, col := range header {
			if i < len(fields) {
				rec[col] = fields[i]
			} else {
				rec[col] = ""
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	t.Checksum = hex.EncodeToString(h.Sum(nil))
	return t, nil
}
