package service

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/civicreg/constituent-service/internal/core/domain"
)

// CSVHeader is the exact column order of the export.
var CSVHeader = []string{
	"id",
	"first_name",
	"last_name",
	"age",
	"phone",
	"email",
	"street_address",
	"city",
	"state",
	"zip",
	"district",
	"status",
	"created_at",
	"updated_at",
}

const csvLineEnd = "\r\n"

// ExportCSV writes every constituent to w, most recent first.
func (s *ConstituentService) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load constituents for export")
		return 0, &domain.StorageError{Op: OpExport, Err: err}
	}
	if err := WriteCSV(w, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// WriteCSV renders records in the export shape: every field double-quoted
// except id and age, embedded quotes doubled, CRLF between lines and no
// terminator after the last one.
func WriteCSV(w io.Writer, records []*domain.Constituent) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(CSVHeader, ",")); err != nil {
		return err
	}
	for _, r := range records {
		if _, err := bw.WriteString(csvLineEnd); err != nil {
			return err
		}
		if _, err := bw.WriteString(csvRow(r)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func csvRow(r *domain.Constituent) string {
	fields := []string{
		r.ID,
		quote(r.FirstName),
		quote(r.LastName),
		strconv.Itoa(r.Age),
		quote(r.Phone),
		quote(r.Email),
		quote(r.StreetAddress),
		quote(r.City),
		quote(r.State),
		quote(r.Zip),
		quote(r.DistrictOrEmpty()),
		quote(r.Status),
		quote(FormatTimestamp(r.CreatedAt)),
		quote(FormatTimestamp(r.UpdatedAt)),
	}
	return strings.Join(fields, ",")
}

// FormatTimestamp is the timestamp rendering used by the export.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
