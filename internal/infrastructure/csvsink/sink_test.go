package csvsink

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ResearchOutreach/internal/domain"
)

func TestWriteRefusesEmptyTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "report.csv")
	sink := NewSink(path, nil)

	if _, err := sink.Write(&domain.ResultTable{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("no file must be written for an empty table")
	}
}

func TestWriteRoundTripsRecords(t *testing.T) {
	t.Parallel()

	records := []domain.ProfessorRecord{
		{
			University:    "George Mason University",
			Professor:     "Alice Barker, Professor",
			ProfileURL:    "https://cs.gmu.edu/profiles/abarker",
			ResearchFocus: "program synthesis; formal methods",
			EmailDraft:    "Dear Professor Barker,\n\nI hope this message finds you well.",
		},
		{
			University:    "Virginia Tech",
			Professor:     `Bob "Bo" Chen`,
			ProfileURL:    "https://cs.vt.edu/people/bchen",
			ResearchFocus: "networks, measurement",
			EmailDraft:    "Dear Professor Chen, ...",
		},
	}

	table := &domain.ResultTable{}
	for _, rec := range records {
		table.Append(rec)
	}

	path := filepath.Join(t.TempDir(), "report.csv")
	sink := NewSink(path, nil)

	written, err := sink.Write(table)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if written != path {
		t.Fatalf("unexpected path: %s", written)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}

	if len(rows) != len(records)+1 {
		t.Fatalf("expected %d rows, got %d", len(records)+1, len(rows))
	}

	for i, col := range Header {
		if rows[0][i] != col {
			t.Fatalf("header column %d: expected %s, got %s", i, col, rows[0][i])
		}
	}

	for i, rec := range records {
		row := rows[i+1]
		got := domain.ProfessorRecord{
			University:    row[0],
			Professor:     row[1],
			ProfileURL:    row[2],
			ResearchFocus: row[3],
			EmailDraft:    row[4],
		}
		if got != rec {
			t.Fatalf("row %d mismatch:\n got %+v\nwant %+v", i, got, rec)
		}
	}
}
