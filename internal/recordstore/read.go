package recordstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roach88/yutaicat/internal/catalog"
)

// ReadAll returns every row of a table in file order.
// A missing table returns an empty slice, not an error.
//
// Short rows get "" for the header columns they lack; columns beyond the
// header are ignored. A column absent from the header is absent from the
// record.
func (s *Store) ReadAll(table string) ([]Record, error) {
	f, err := os.Open(s.Path(table))
	if errors.Is(err, os.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	// Hand-edited cells like 5" voucher carry bare quotes.
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", table, err)
	}

	records := []Record{}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", table, err)
		}

		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// ReadCompanies reads the companies table as raw records.
func (s *Store) ReadCompanies() ([]catalog.RawCompany, error) {
	rows, err := s.ReadAll(Companies)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.RawCompany, len(rows))
	for i, r := range rows {
		out[i] = catalog.RawCompany{
			ID:           r["id"],
			Name:         r["name"],
			Ticker:       r["ticker"],
			ChainIDs:     r["chainIds"],
			VoucherTypes: r["voucherTypes"],
			Notes:        r["notes"],
			URL:          r["url"],
		}
	}
	return out, nil
}

// ReadChains reads the chains table as raw records.
func (s *Store) ReadChains() ([]catalog.RawChain, error) {
	rows, err := s.ReadAll(Chains)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.RawChain, len(rows))
	for i, r := range rows {
		out[i] = catalog.RawChain{
			ID:           r["id"],
			DisplayName:  r["displayName"],
			Category:     r["category"],
			CompanyIDs:   r["companyIds"],
			VoucherTypes: r["voucherTypes"],
			Tags:         r["tags"],
			URL:          r["url"],
		}
	}
	return out, nil
}

// ReadStores reads the stores table as raw records. A table without lat
// or lng columns reads those coordinates as "0".
func (s *Store) ReadStores() ([]catalog.RawStore, error) {
	rows, err := s.ReadAll(Stores)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.RawStore, len(rows))
	for i, r := range rows {
		out[i] = catalog.RawStore{
			ID:        r["id"],
			ChainID:   r["chainId"],
			Name:      r["name"],
			Address:   r["address"],
			Lat:       valueOr(r, "lat", "0"),
			Lng:       valueOr(r, "lng", "0"),
			Tags:      r["tags"],
			UpdatedAt: r["updatedAt"],
		}
	}
	return out, nil
}

// valueOr returns r[key], or def when the column is absent entirely.
func valueOr(r Record, key, def string) string {
	if v, ok := r[key]; ok {
		return v
	}
	return def
}
