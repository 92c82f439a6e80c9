// Package ledger records currency movements.
//
// The ledger is append-only: earning and spending both add entries, and
// balances and daily totals are always derived by scanning the log. Nothing
// rewrites an entry once it is appended.
package ledger
