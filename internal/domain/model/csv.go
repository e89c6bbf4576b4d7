package model

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Header is the fixed CSV column order for exported game logs.
var Header = []string{"Timestamp", "Team", "Event", "Point", "From", "To", "OnFieldTeamA", "OnFieldTeamB"}

// WriteCSV serializes rows in the fixed column order, preceded by Header.
// The on-field snapshots are JSON-encoded into a single text field each;
// this is the only place they leave their structured in-memory form.
func WriteCSV(w io.Writer, rows []EventRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		onA, err := json.Marshal(row.OnFieldA)
		if err != nil {
			return fmt.Errorf("encode team A snapshot: %w", err)
		}
		onB, err := json.Marshal(row.OnFieldB)
		if err != nil {
			return fmt.Errorf("encode team B snapshot: %w", err)
		}
		rec := []string{
			row.Timestamp,
			string(row.Team),
			string(row.Event),
			strconv.Itoa(row.Point),
			row.From,
			row.To,
			string(onA),
			string(onB),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadCSV parses a log previously produced by WriteCSV. The header row is
// validated against the fixed column order.
func ReadCSV(r io.Reader) ([]EventRow, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) != len(Header) {
		return nil, fmt.Errorf("unexpected csv header: %v", header)
	}
	for i, col := range Header {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected csv column %d: got %q, want %q", i, header[i], col)
		}
	}

	var rows []EventRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		point, err := strconv.Atoi(rec[3])
		if err != nil {
			return nil, fmt.Errorf("parse point number %q: %w", rec[3], err)
		}
		var onA, onB []string
		if err := json.Unmarshal([]byte(rec[6]), &onA); err != nil {
			return nil, fmt.Errorf("decode team A snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(rec[7]), &onB); err != nil {
			return nil, fmt.Errorf("decode team B snapshot: %w", err)
		}
		rows = append(rows, EventRow{
			Timestamp: rec[0],
			Team:      Team(rec[1]),
			Event:     Kind(rec[2]),
			Point:     point,
			From:      rec[4],
			To:        rec[5],
			OnFieldA:  onA,
			OnFieldB:  onB,
		})
	}
	return rows, nil
}
