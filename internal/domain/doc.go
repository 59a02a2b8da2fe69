// Package domain contains the catalog model shared by the console, the CLI
// and the REST client.
//
// The package has no dependencies outside the standard library. It defines the
// four records the backend manages and the handful of derived values the
// console displays:
//
//   - user.go:   User and its create/update payloads
//   - author.go: Author and its create/update payloads
//   - book.go:   Book, its payloads and the in-stock filter used by the loan form
//   - loan.go:   Loan, LoanStatus and the 14-day due date shown on the loan form
//   - dates.go:  YYYY-MM-DD helpers
//   - errors.go: sentinel errors
//
// Validation here mirrors the required fields of the console forms and nothing
// more. The backend remains the authority on every record, including the loan
// status: LoanStatus values are carried verbatim and never recomputed from dates.
package domain
