package postgres

// rowScanner is satisfied by both pgx.Row and pgx.Rows — lets the scan
// helpers below work whether a query returns zero-or-one row or a set.
type rowScanner interface {
	Scan(dest ...any) error
}
