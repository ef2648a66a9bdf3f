package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

const originalSchema = `
CREATE TABLE version (version INT);
INSERT INTO version (version) VALUES (1);
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
    matches     BOOLEAN NOT NULL,
    error       VARCHAR,
    checkedAt   INT
);
INSERT INTO checks (invoice, paymentHash, amountSat, matches, checkedAt) VALUES ('lni1a', '00', 1000, 1, 1700000000);
`

func TestMigration(t *testing.T) {
	tt := []struct {
		name        string
		schema      string
		successfull bool
	}{
		{"Original", originalSchema, true},
		{"Unknown", "CREATE TABLE version (version INT); INSERT INTO version (version) VALUES (100);", false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			path := t.TempDir() + "/test.db"
			db, err := sql.Open("sqlite3", path)
			require.NoError(t, err)
			_, err = db.Exec(tc.schema)
			require.NoError(t, err)
			database := &Database{Path: path, db: db}
			originalVersion, err := database.queryVersion()
			require.NoError(t, err)
			require.NoError(t, db.Close())

			database = &Database{Path: path}
			migrationError := database.Connect()
			version, err := database.queryVersion()
			require.NoError(t, err)
			if tc.successfull {
				require.NoError(t, migrationError)
				require.Equal(t, latestSchemaVersion, version)

				checks, err := database.QueryChecks(CheckQuery{})
				require.NoError(t, err)
				require.Len(t, checks, 1)
				require.Equal(t, uint64(1000), checks[0].AmountSat)
				require.True(t, checks[0].ExpiryDate.IsZero())
			} else {
				require.Error(t, migrationError)
				require.Equal(t, originalVersion, version)
			}
		})
	}
}

func TestFreshDatabase(t *testing.T) {
	database := &Database{Path: ":memory:"}
	require.NoError(t, database.Connect())

	version, err := database.queryVersion()
	require.NoError(t, err)
	require.Equal(t, latestSchemaVersion, version)
	require.NoError(t, database.Close())
	require.NoError(t, database.Close())
}
