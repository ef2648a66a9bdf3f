package lightning

import (
	"time"

	"github.com/BoltzExchange/boltz-bolt12/pkg/bolt12"
)

type Offer struct {
	MinAmount uint64
}

func DecodeOffer(offer string) (*Offer, error) {
	decoded, err := bolt12.DecodeOffer(offer)
	if err != nil {
		return nil, err
	}
	return &Offer{
		MinAmount: decoded.MinAmountSat,
	}, nil
}

func DecodeBolt12Invoice(invoice string) (*DecodedInvoice, error) {
	decoded, err := bolt12.DecodeInvoice(invoice)
	if err != nil {
		return nil, err
	}
	return &DecodedInvoice{
		AmountSat:   decoded.AmountSat,
		PaymentHash: decoded.PaymentHash,
		Expiry:      time.Unix(decoded.ExpiryDate.Unix(), 0),
		Destination: decoded.NodeID,
		Bolt12:      decoded,
	}, nil
}

func CheckInvoiceIsForOffer(invoice string, offer string) bool {
	return bolt12.CheckInvoiceIsForOffer(invoice, offer)
}
