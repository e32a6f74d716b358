// Package catalog defines the compiled benefit catalog and its wire format.
//
// This package holds type definitions and the byte-level rules of the
// release: canonical artifact serialization, the content hash, and the
// calendar version label. All other internal packages import catalog;
// catalog imports nothing internal.
//
// Key design constraints:
//   - Chain.CompanyIDs is the authoritative company<->chain relation.
//     Company.ChainIDs is always derived from it at compile time; the copy
//     stored in the companies table (RawCompany.ChainIDs) is never read.
//   - List fields serialize as arrays, never null.
//   - Optional strings (ticker, notes, url) serialize as null when empty.
//   - JSON field names are camelCase to match downstream consumers.
package catalog
