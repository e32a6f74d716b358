package recordstore

import (
	"errors"
	"path/filepath"
)

// Table names.
const (
	Companies = "companies"
	Chains    = "chains"
	Stores    = "stores"
)

// ErrDuplicateID is returned by Append when the id already exists.
var ErrDuplicateID = errors.New("id already exists")

// Record is one table row keyed by column name.
type Record map[string]string

// ID returns the row's id column.
func (r Record) ID() string {
	return r["id"]
}

// Store is a directory of CSV tables.
type Store struct {
	dir string
}

// Open returns a store rooted at dir. The directory is created lazily on
// the first write.
func Open(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path of a table.
func (s *Store) Path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}
