package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Check is the stored outcome of checking one invoice against an offer.
type Check struct {
	Id          Id
	Invoice     string
	OfferId     string
	PaymentHash string
	AmountSat   uint64
	ExpiryDate  time.Time
	Matches     bool
	Error       string
	CheckedAt   time.Time
}

const checkColumns = "id, invoice, offerId, paymentHash, amountSat, expiryDate, matches, error, checkedAt"

type CheckQuery struct {
	OfferId *string
	Matches *bool
	Since   time.Time
	Limit   *uint64
	Offset  *uint64
}

type CheckStats struct {
	Total   uint64
	Matched uint64
}

func (query *CheckQuery) ToWhereClause() (string, []any) {
	var conditions []string
	var values []any

	if query.OfferId != nil {
		conditions = append(conditions, "offerId = ?")
		values = append(values, *query.OfferId)
	}
	if query.Matches != nil {
		conditions = append(conditions, "matches = ?")
		values = append(values, *query.Matches)
	}
	if !query.Since.IsZero() {
		conditions = append(conditions, "checkedAt >= ?")
		values = append(values, query.Since.Unix())
	}

	where := whereClause(conditions)
	where += " ORDER BY checkedAt DESC, id DESC"
	if query.Limit != nil {
		where += " LIMIT ?"
		values = append(values, *query.Limit)
	}
	if query.Offset != nil {
		where += " OFFSET ?"
		values = append(values, *query.Offset)
	}
	return where, values
}

func (database *Database) CreateCheck(check *Check) error {
	query := `INSERT INTO checks (invoice, offerId, paymentHash, amountSat, expiryDate, matches, error, checkedAt)
VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

	var expiryDate sql.NullInt64
	if !check.ExpiryDate.IsZero() {
		expiryDate = sql.NullInt64{Int64: check.ExpiryDate.Unix(), Valid: true}
	}

	row := database.QueryRow(
		query,
		check.Invoice,
		nullString(check.OfferId),
		nullString(check.PaymentHash),
		check.AmountSat,
		expiryDate,
		check.Matches,
		nullString(check.Error),
		FormatTime(check.CheckedAt),
	)
	return row.Scan(&check.Id)
}

// CreateChecks stores all checks in a single transaction.
func (database *Database) CreateChecks(checks []*Check) error {
	return database.RunTx(func(tx *Transaction) error {
		for _, check := range checks {
			if err := tx.CreateCheck(check); err != nil {
				return fmt.Errorf("could not store check of invoice %s: %w", check.Invoice, err)
			}
		}
		return nil
	})
}

func (database *Database) QueryChecks(query CheckQuery) ([]*Check, error) {
	database.lock.RLock()
	defer database.lock.RUnlock()

	where, values := query.ToWhereClause()
	rows, err := database.Query("SELECT "+checkColumns+" FROM checks"+where, values...)
	if err != nil {
		return nil, fmt.Errorf("failed to query checks: %w", err)
	}
	defer closeRows(rows)

	var checks []*Check
	for rows.Next() {
		check, err := parseCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, rows.Err()
}

func (database *Database) QueryCheckStats(query CheckQuery) (*CheckStats, error) {
	database.lock.RLock()
	defer database.lock.RUnlock()

	query.Limit = nil
	query.Offset = nil
	where, values := query.ToWhereClause()

	var stats CheckStats
	row := database.QueryRow("SELECT COUNT(*), COALESCE(SUM(matches), 0) FROM checks"+where, values...)
	if err := row.Scan(&stats.Total, &stats.Matched); err != nil {
		return nil, fmt.Errorf("failed to query check stats: %w", err)
	}
	return &stats, nil
}

func parseCheck(r row) (*Check, error) {
	var check Check
	var offerId, paymentHash, checkError sql.NullString
	var expiryDate sql.NullInt64
	var checkedAt int64

	err := r.Scan(
		&check.Id,
		&check.Invoice,
		&offerId,
		&paymentHash,
		&check.AmountSat,
		&expiryDate,
		&check.Matches,
		&checkError,
		&checkedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse check: %w", err)
	}

	check.OfferId = offerId.String
	check.PaymentHash = paymentHash.String
	check.Error = checkError.String
	if expiryDate.Valid {
		check.ExpiryDate = parseTime(expiryDate.Int64)
	}
	check.CheckedAt = parseTime(checkedAt)
	return &check, nil
}
