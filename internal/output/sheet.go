package output

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"eudamed_scraper/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrOutOfOrder is returned when a write does not land on the next free row.
var ErrOutOfOrder = errors.New("write out of order")

// Sheet is the in-memory output: a header followed by manufacturer rows.
// Rows are only ever appended.
type Sheet struct {
	Name    string
	header  []string
	records []models.Manufacturer
}

func NewSheet(name string) *Sheet {
	return &Sheet{
		Name:   name,
		header: slices.Clone(models.ManufacturerHeader),
	}
}

// Put stores rec at cursor, which must be the current row count.
func (s *Sheet) Put(cursor int, rec models.Manufacturer) error {
	if cursor != len(s.records) {
		return fmt.Errorf("%w: cursor %d, next row %d", ErrOutOfOrder, cursor, len(s.records))
	}
	s.records = append(s.records, rec)
	return nil
}

// Len returns the number of data rows, which is also the next cursor.
func (s *Sheet) Len() int {
	return len(s.records)
}

// Header returns a copy of the column titles.
func (s *Sheet) Header() []string {
	return slices.Clone(s.header)
}

// Rows returns the data rows as cell values, without the header.
func (s *Sheet) Rows() [][]string {
	rows := make([][]string, 0, len(s.records))
	for _, rec := range s.records {
		rows = append(rows, rec.Values())
	}
	return rows
}

// Persister writes the complete sheet somewhere durable, replacing what it wrote before.
type Persister interface {
	Persist(ctx context.Context, sheetName string, header []string, rows [][]string) error
}

// Save hands the whole sheet to every persister in order and stops at the first error.
func (s *Sheet) Save(ctx context.Context, persisters ...Persister) error {
	header := s.Header()
	rows := s.Rows()
	for _, p := range persisters {
		if err := p.Persist(ctx, s.Name, header, rows); err != nil {
			return err
		}
	}
	return nil
}

type bestEffort struct {
	name string
	next Persister
}

// BestEffort wraps p so that its failures are logged and swallowed.
func BestEffort(name string, p Persister) Persister {
	return &bestEffort{name: name, next: p}
}

func (b *bestEffort) Persist(ctx context.Context, sheetName string, header []string, rows [][]string) error {
	if err := b.next.Persist(ctx, sheetName, header, rows); err != nil {
		log.Warn().
			Err(err).
			Str("persister", b.name).
			Int("rows", len(rows)).
			Msg("Optional persister failed; continuing")
	}
	return nil
}
