package lightning

import (
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

const (
	minPaymentFee = btcutil.Amount(5)
)

// FeeLimit is the maximal routing fee in sat: a share of the amount, but at
// least minPaymentFee so that small payments can still be routed.
func (invoice *DecodedInvoice) FeeLimit(feeLimitPpm uint64) uint {
	fee := btcutil.Amount(invoice.AmountSat).MulF64(float64(feeLimitPpm) / 1_000_000)
	return uint(max(fee, minPaymentFee))
}

// CalculateFeeLimit decodes a BOLT11 or BOLT12 invoice and returns its fee limit in sat
func CalculateFeeLimit(invoice string, chainParams *chaincfg.Params, feeLimitPpm uint64) (uint, error) {
	decoded, err := DecodeInvoice(invoice, chainParams)
	if err != nil {
		return 0, err
	}
	return decoded.FeeLimit(feeLimitPpm), nil
}
