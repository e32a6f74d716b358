package recordstore

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteAll replaces a table with rows, writing the header in fields order.
// Each row contributes exactly the listed fields; missing ones are written
// empty and extra keys are dropped.
func (s *Store) WriteAll(table string, rows []Record, fields []string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+table+"-*.csv")
	if err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(fields); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s header: %w", table, err)
	}
	line := make([]string, len(fields))
	for _, r := range rows {
		for i, f := range fields {
			line[i] = r[f]
		}
		if err := w.Write(line); err != nil {
			tmp.Close()
			return fmt.Errorf("write %s row %q: %w", table, r.ID(), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", table, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}

	if err := os.Rename(tmp.Name(), s.Path(table)); err != nil {
		return fmt.Errorf("write %s: %w", table, err)
	}
	return nil
}

// Append adds row to the end of a table.
// Returns ErrDuplicateID if a row with the same id exists.
func (s *Store) Append(table string, row Record, fields []string) error {
	rows, err := s.ReadAll(table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if r.ID() == row.ID() {
			return fmt.Errorf("append %s %q: %w", table, row.ID(), ErrDuplicateID)
		}
	}
	return s.WriteAll(table, append(rows, row), fields)
}

// Update merges updates into the row with the given id.
// Returns false, without touching the file, if no row matched.
func (s *Store) Update(table, id string, updates Record, fields []string) (bool, error) {
	rows, err := s.ReadAll(table)
	if err != nil {
		return false, err
	}
	for _, r := range rows {
		if r.ID() != id {
			continue
		}
		for k, v := range updates {
			r[k] = v
		}
		return true, s.WriteAll(table, rows, fields)
	}
	return false, nil
}

// Delete removes the row with the given id.
// Returns false, without touching the file, if no row matched.
func (s *Store) Delete(table, id string, fields []string) (bool, error) {
	rows, err := s.ReadAll(table)
	if err != nil {
		return false, err
	}
	kept := rows[:0:0]
	for _, r := range rows {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(rows) {
		return false, nil
	}
	return true, s.WriteAll(table, kept, fields)
}
