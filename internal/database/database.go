package database

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BoltzExchange/boltz-bolt12/internal/logger"
	"github.com/btcsuite/btcd/btcec/v2"
	_ "github.com/mattn/go-sqlite3"
)

const createTables = `
CREATE TABLE version
(
    version INT
);
CREATE TABLE offers
(
    id           VARCHAR PRIMARY KEY,
    offer        VARCHAR NOT NULL,
    issuerId     VARCHAR,
    minAmountSat INT,
    description  VARCHAR,
    createdAt    INT
);
CREATE TABLE checks
(
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    invoice     VARCHAR NOT NULL,
    offerId     VARCHAR REFERENCES offers (id),
    paymentHash VARCHAR(64),
    amountSat   INT,
    expiryDate  INT,
    matches     BOOLEAN NOT NULL,
    error       VARCHAR,
    checkedAt   INT
);
CREATE INDEX checksOfferId ON checks (offerId);
`

type Database struct {
	Path string `long:"database.path" description:"Path to the database file; set to empty string to not store results"`

	db *sql.DB
	tx *sql.Tx

	lock sync.RWMutex
}

type Transaction struct {
	Database
}

type row interface {
	Scan(dest ...any) error
}

type Id = uint64

func (database *Database) Connect() error {
	if database.db == nil {
		logger.Info("Opening database: " + database.Path)
		db, err := sql.Open("sqlite3", database.Path)

		if err != nil {
			return err
		}

		// every connection to ":memory:" opens a new, empty database
		db.SetMaxOpenConns(1)
		database.db = db

		if err := database.migrate(); err != nil {
			return err
		}

		if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return err
		}
	}
	return nil
}

func (database *Database) Close() error {
	if database.db == nil {
		return nil
	}
	err := database.db.Close()
	database.db = nil
	return err
}

func (database *Database) BeginTx() (*Transaction, error) {
	tx, err := database.db.Begin()
	if err != nil {
		return nil, err
	}
	return &Transaction{
		Database{tx: tx},
	}, nil
}

func (database *Database) RunTx(run func(tx *Transaction) error) error {
	tx, err := database.BeginTx()
	if err != nil {
		return err
	}
	if err := run(tx); err != nil {
		return tx.Rollback(err)
	}
	return tx.Commit()
}

func (transaction *Transaction) Commit() error {
	return transaction.tx.Commit()
}

func (transaction *Transaction) Rollback(cause error) error {
	if err := transaction.tx.Rollback(); err != nil {
		return fmt.Errorf("failed to rollback: %w: %w", err, cause)
	}
	return cause
}

func (database *Database) Exec(query string, args ...any) (sql.Result, error) {
	database.lock.Lock()
	defer database.lock.Unlock()
	logger.Silly("Executing query: " + query)
	if database.tx != nil {
		return database.tx.Exec(query, args...)
	}
	return database.db.Exec(query, args...)
}

func (database *Database) Query(query string, args ...any) (*sql.Rows, error) {
	logger.Silly("Executing query: " + query)
	if database.tx != nil {
		return database.tx.Query(query, args...)
	}
	return database.db.Query(query, args...)
}

func (database *Database) QueryRow(query string, args ...any) *sql.Row {
	logger.Silly("Executing query: " + query)
	if database.tx != nil {
		return database.tx.QueryRow(query, args...)
	}
	return database.db.QueryRow(query, args...)
}

func (database *Database) createTables() error {
	_, err := database.Exec(createTables)
	return err
}

func ParsePublicKey(publicKeyHex string) (*btcec.PublicKey, error) {
	pubKeyBytes, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, err
	}
	return btcec.ParsePubKey(pubKeyBytes)
}

func formatPublicKey(key *btcec.PublicKey) string {
	if key == nil {
		return ""
	}
	return hex.EncodeToString(key.SerializeCompressed())
}

func parseTime(unix int64) time.Time {
	return time.Unix(unix, 0)
}

func FormatTime(t time.Time) int64 {
	if t.IsZero() {
		return time.Now().Unix()
	}
	return t.Unix()
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conditions, " AND ")
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.Errorf("Error closing rows: %v", err)
	}
}
