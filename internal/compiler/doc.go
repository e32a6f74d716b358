// Package compiler assembles raw record-store tables into a catalog snapshot.
//
// Compilation is a single synchronous pass:
//
//	chains    → normalize → derive company→chain membership
//	companies → normalize with the derived membership
//	stores    → normalize (bad coordinates abort)
//
// Chains are compiled first because Chain.CompanyIDs is the only source of
// the company↔chain relation. Whatever chainIds column the companies table
// carries is replaced, never merged.
//
// The default policy is lenient: rows missing identifying fields are
// skipped and dangling references pass through. Options.Strict adds the
// integrity checks in CheckIntegrity and fails the compile on any finding.
package compiler
