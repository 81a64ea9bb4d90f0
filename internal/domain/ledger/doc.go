// Package ledger implements the append-only invoice ledger: each invoice
// commits to its predecessor through a SHA-256 hash chain, and a compact
// QR payload lets any party verify that a printed receipt corresponds to
// an unaltered ledger entry.
//
// Everything in this package is pure domain logic. Persistence is reached
// only through the InvoiceRepository interface, and hashing never reads
// the clock or any other ambient state.
package ledger
