package boundary

import (
	"github.com/BoltzExchange/boltz-bolt12/internal/logger"
	"github.com/BoltzExchange/boltz-bolt12/pkg/bolt12"
)

type Offer struct {
	MinAmountSat uint64
}

type Invoice struct {
	AmountSat   uint64
	PaymentHash [32]byte
	// ExpiryDate in seconds since the unix epoch
	ExpiryDate uint64
}

type OfferResult = Result[Offer]

type InvoiceResult = Result[Invoice]

func DecodeOffer(text string) OfferResult {
	offer, err := bolt12.DecodeOffer(text)
	if err != nil {
		logger.Debugf("Could not decode offer: %v", err)
		return Err[Offer](err)
	}
	return Ok(Offer{MinAmountSat: offer.MinAmountSat})
}

func DecodeInvoice(text string) InvoiceResult {
	invoice, err := bolt12.DecodeInvoice(text)
	if err != nil {
		logger.Debugf("Could not decode invoice: %v", err)
		return Err[Invoice](err)
	}

	var expiry uint64
	if unix := invoice.ExpiryDate.Unix(); unix > 0 {
		expiry = uint64(unix)
	}
	return Ok(Invoice{
		AmountSat:   invoice.AmountSat,
		PaymentHash: invoice.PaymentHash,
		ExpiryDate:  expiry,
	})
}

func CheckInvoiceIsForOffer(invoice string, offer string) bool {
	return bolt12.CheckInvoiceIsForOffer(invoice, offer)
}
