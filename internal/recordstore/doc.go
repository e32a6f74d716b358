// Package recordstore provides the flat-file tables the catalog is curated in.
//
// Each table is a UTF-8 CSV file in the data directory with a header row
// whose first column is "id". Rows are string-keyed records; there are no
// transactions and no partial writes:
//   - Reading a table that does not exist yields zero records.
//   - Every write rewrites the whole table, header first, through a
//     temporary file renamed into place.
//
// Row helpers (Append, Update, Delete) mirror what the admin forms do, and
// the reference guards report rows that still point at a company or chain
// so callers can refuse a delete that would break the catalog.
package recordstore
