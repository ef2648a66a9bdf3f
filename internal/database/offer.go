package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
)

const offerColumns = "id, offer, issuerId, minAmountSat, description, createdAt"

type Offer struct {
	Id           string
	Offer        string
	IssuerId     *btcec.PublicKey
	MinAmountSat uint64
	Description  string
	CreatedAt    time.Time
}

// CreateOffer stores the offer unless an offer with the same id exists already.
func (database *Database) CreateOffer(offer *Offer) error {
	query := `INSERT OR IGNORE INTO offers (id, offer, issuerId, minAmountSat, description, createdAt) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := database.Exec(
		query,
		offer.Id,
		offer.Offer,
		nullString(formatPublicKey(offer.IssuerId)),
		offer.MinAmountSat,
		offer.Description,
		FormatTime(offer.CreatedAt),
	)
	return err
}

func (database *Database) QueryOffer(id string) (*Offer, error) {
	database.lock.RLock()
	defer database.lock.RUnlock()
	row := database.QueryRow("SELECT "+offerColumns+" FROM offers WHERE id = ?", id)
	offer, err := parseOffer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("could not find offer %s", id)
	}
	return offer, err
}

func (database *Database) QueryOffers() ([]*Offer, error) {
	database.lock.RLock()
	defer database.lock.RUnlock()
	rows, err := database.Query("SELECT "+offerColumns+" FROM offers ORDER BY createdAt DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer closeRows(rows)

	var offers []*Offer
	for rows.Next() {
		offer, err := parseOffer(rows)
		if err != nil {
			return nil, err
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

func parseOffer(r row) (*Offer, error) {
	var offer Offer
	var issuerId sql.NullString
	var createdAt int64

	err := r.Scan(&offer.Id, &offer.Offer, &issuerId, &offer.MinAmountSat, &offer.Description, &createdAt)
	if err != nil {
		return nil, err
	}

	if issuerId.Valid {
		offer.IssuerId, err = ParsePublicKey(issuerId.String)
		if err != nil {
			return nil, fmt.Errorf("invalid issuer id of offer %s: %w", offer.Id, err)
		}
	}
	offer.CreatedAt = parseTime(createdAt)
	return &offer, nil
}
