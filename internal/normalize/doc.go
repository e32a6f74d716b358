// Package normalize turns raw record-store rows into typed catalog entities.
//
// The policy is lenient and best-effort, matching a hand-edited dataset:
//   - A row missing an identifying field (id plus name, displayName, or
//     chainId+name for stores) is dropped: the constructor returns ok=false
//     and no error.
//   - List columns are comma-joined at rest; they are split, trimmed, and
//     empty tokens dropped, preserving order.
//   - Text is NFC-normalized so equal strings hash equally.
//
// The one fatal case is a store coordinate that does not parse as a finite
// float: Store returns a *FieldError and the whole compile aborts.
package normalize
