package batch

import (
	"fmt"
	"time"

	"github.com/BoltzExchange/boltz-bolt12/internal/database"
)

func (result *Result) DatabaseOffer() *database.Offer {
	if result.Offer == nil || result.OfferID == "" {
		return nil
	}
	offer := &database.Offer{
		Id:           result.OfferID,
		Offer:        result.Pair.Offer,
		IssuerId:     result.Offer.IssuerID,
		MinAmountSat: result.Offer.MinAmountSat,
		CreatedAt:    time.Now(),
	}
	if result.Offer.Description != nil {
		offer.Description = *result.Offer.Description
	}
	return offer
}

func (result *Result) DatabaseCheck(checkedAt time.Time) *database.Check {
	check := &database.Check{
		Invoice:   result.Pair.Invoice,
		OfferId:   result.OfferID,
		Matches:   result.Matches(),
		CheckedAt: checkedAt,
	}
	if result.Invoice != nil {
		check.PaymentHash = result.Invoice.PaymentHash.String()
		check.AmountSat = result.Invoice.AmountSat
		check.ExpiryDate = result.Invoice.ExpiryDate
	}
	if result.Err != nil {
		check.Error = result.Err.Error()
	}
	return check
}

// Store records the results and the offers they were checked against in a
// single transaction.
func Store(db *database.Database, results []Result) error {
	checkedAt := time.Now()
	return db.RunTx(func(tx *database.Transaction) error {
		for _, result := range results {
			if offer := result.DatabaseOffer(); offer != nil {
				if err := tx.CreateOffer(offer); err != nil {
					return fmt.Errorf("could not store offer %s: %w", offer.Id, err)
				}
			}
			check := result.DatabaseCheck(checkedAt)
			if err := tx.CreateCheck(check); err != nil {
				return fmt.Errorf("could not store check of line %d: %w", result.Pair.Line, err)
			}
		}
		return nil
	})
}
