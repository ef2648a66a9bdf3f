package bolt12

import (
	"fmt"
	"math/bits"

	"github.com/BoltzExchange/boltz-bolt12/internal/logger"
)

// VerifyInvoiceForOffer reports why an already decoded invoice was not issued
// against the offer, or nil if it was.
func VerifyInvoiceForOffer(invoice *Invoice, offer *Offer) error {
	if invoice == nil || offer == nil || invoice.NodeID == nil {
		return ErrWrongSigner
	}
	if invoice.Offer == nil {
		return fmt.Errorf("%w: invoice does not reference an offer", ErrWrongOffer)
	}

	invoiceOfferID, err := invoice.OfferID()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrongOffer, err)
	}
	offerID, err := offer.ID()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrongOffer, err)
	}
	if invoiceOfferID != offerID {
		return ErrWrongOffer
	}

	signed := false
	for _, signer := range offer.Signers() {
		if signer.IsEqual(invoice.NodeID) {
			signed = true
			break
		}
	}
	if !signed {
		return ErrWrongSigner
	}

	if minimum, ok := offer.minimumMsat(invoice.Quantity); ok && invoice.AmountMsat < minimum {
		return fmt.Errorf("%w: %d < %d msat", ErrAmountTooLow, invoice.AmountMsat, minimum)
	}
	return nil
}

// minimumMsat is the least an invoice for quantity items has to ask for.
// Currency denominated offers have no bitcoin minimum.
func (offer *Offer) minimumMsat(quantity *uint64) (uint64, bool) {
	if offer.AmountMsat == nil || offer.Currency != "" {
		return 0, false
	}
	count := uint64(1)
	if quantity != nil && *quantity > 1 {
		count = *quantity
	}
	high, minimum := bits.Mul64(*offer.AmountMsat, count)
	if high != 0 {
		minimum = ^uint64(0)
	}
	return minimum, true
}

func Matches(invoice *Invoice, offer *Offer) bool {
	return VerifyInvoiceForOffer(invoice, offer) == nil
}

// CheckInvoiceIsForOffer decodes both strings and checks the binding between
// them. Every failure, including decode errors, collapses to false.
func CheckInvoiceIsForOffer(invoiceText string, offerText string) bool {
	invoice, err := DecodeInvoice(invoiceText)
	if err != nil {
		logger.Debugf("Could not decode invoice: %v", err)
		return false
	}
	offer, err := DecodeOffer(offerText)
	if err != nil {
		logger.Debugf("Could not decode offer: %v", err)
		return false
	}
	if err := VerifyInvoiceForOffer(invoice, offer); err != nil {
		logger.Debugf("Invoice %s is not for offer: %v", invoice.PaymentHash, err)
		return false
	}
	return true
}
