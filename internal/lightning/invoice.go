package lightning

import (
	"errors"
	"fmt"
	"time"

	"github.com/BoltzExchange/boltz-bolt12/pkg/bolt12"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/lightningnetwork/lnd/zpay32"
)

var (
	ErrWrongNetwork = errors.New("invoice is for a different network")
	ErrNoNetwork    = errors.New("no network to decode the invoice for")
)

type DecodedInvoice struct {
	AmountSat   uint64
	PaymentHash [32]byte
	Expiry      time.Time
	Destination *btcec.PublicKey
	// Bolt12 is set for BOLT12 invoices
	Bolt12 *bolt12.Invoice
}

func (invoice *DecodedInvoice) IsBolt12() bool {
	return invoice.Bolt12 != nil
}

// DecodeInvoice accepts BOLT11 and BOLT12 invoices for the given network,
// which is required.
func DecodeInvoice(invoice string, network *chaincfg.Params) (*DecodedInvoice, error) {
	if network == nil {
		return nil, ErrNoNetwork
	}

	bolt11, err := zpay32.Decode(invoice, network)
	if err == nil {
		var amount uint64
		if bolt11.MilliSat != nil {
			amount = uint64(bolt11.MilliSat.ToSatoshis())
		}
		return &DecodedInvoice{
			AmountSat:   amount,
			PaymentHash: *bolt11.PaymentHash,
			Expiry:      bolt11.Timestamp.Add(bolt11.Expiry()),
			Destination: bolt11.Destination,
		}, nil
	}

	decoded, bolt12Err := DecodeBolt12Invoice(invoice)
	if bolt12Err != nil {
		return nil, fmt.Errorf("could not decode as bolt11 (%v) or bolt12 (%w)", err, bolt12Err)
	}
	if decoded.Bolt12.Chain != *network.GenesisHash {
		return nil, fmt.Errorf("%w: expected %s", ErrWrongNetwork, network.Name)
	}
	return decoded, nil
}
