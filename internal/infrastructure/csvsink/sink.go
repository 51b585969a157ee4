package csvsink

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"ResearchOutreach/internal/domain"
	"ResearchOutreach/internal/ports"
)

// ErrNoData signals that nothing was collected and no file was written.
var ErrNoData = errors.New("no data collected")

// Header is the fixed column set consumers of the CSV depend on.
var Header = []string{"University", "Professor", "Profile Link", "Research Focus", "Email Draft"}

// Sink serializes the result table to a UTF-8 CSV file.
type Sink struct {
	path   string
	logger *slog.Logger
}

var _ ports.ResultSink = (*Sink)(nil)

// NewSink targets the given output path.
func NewSink(path string, logger *slog.Logger) *Sink {
	return &Sink{path: path, logger: logger}
}

// Write serializes all rows in insertion order. A zero-row table writes
// no file and returns ErrNoData.
func (s *Sink) Write(table *domain.ResultTable) (string, error) {
	if table == nil || table.Len() == 0 {
		return "", ErrNoData
	}

	file, err := os.Create(s.path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", s.path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for _, rec := range table.Records() {
		row := []string{rec.University, rec.Professor, rec.ProfileURL, rec.ResearchFocus, rec.EmailDraft}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("write row for %s: %w", rec.Professor, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", s.path, err)
	}

	if s.logger != nil {
		s.logger.Info("report written", "path", s.path, "rows", table.Len())
	}
	return s.path, nil
}
