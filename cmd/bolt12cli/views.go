package main

import (
	"encoding/hex"

	"github.com/BoltzExchange/boltz-bolt12/pkg/bolt12"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// The views are encoded with sonic and cbor; cbor falls back to the json tags.

type offerView struct {
	Id             string   `json:"id"`
	Chains         []string `json:"chains"`
	Currency       string   `json:"currency,omitempty"`
	AmountMsat     *uint64  `json:"amountMsat,omitempty"`
	MinAmountSat   uint64   `json:"minAmountSat"`
	Description    *string  `json:"description,omitempty"`
	Issuer         *string  `json:"issuer,omitempty"`
	IssuerId       string   `json:"issuerId,omitempty"`
	QuantityMax    *uint64  `json:"quantityMax,omitempty"`
	AbsoluteExpiry *int64   `json:"absoluteExpiry,omitempty"`
	Paths          int      `json:"paths"`
	Signers        []string `json:"signers"`
}

type invoiceView struct {
	OfferId     string     `json:"offerId,omitempty"`
	Chain       string     `json:"chain"`
	AmountMsat  uint64     `json:"amountMsat"`
	AmountSat   uint64     `json:"amountSat"`
	Quantity    *uint64    `json:"quantity,omitempty"`
	PaymentHash string     `json:"paymentHash"`
	CreatedAt   int64      `json:"createdAt"`
	ExpiryDate  int64      `json:"expiryDate"`
	NodeId      string     `json:"nodeId"`
	PayerKey    string     `json:"payerKey"`
	PayerNote   *string    `json:"payerNote,omitempty"`
	Bip353Name  string     `json:"bip353Name,omitempty"`
	Paths       int        `json:"paths"`
	Fallbacks   []string   `json:"fallbacks,omitempty"`
	Offer       *offerView `json:"offer,omitempty"`
}

var knownNetworks = []*chaincfg.Params{
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
	&chaincfg.RegressionNetParams,
	&chaincfg.SigNetParams,
}

func chainName(hash chainhash.Hash) string {
	for _, network := range knownNetworks {
		if *network.GenesisHash == hash {
			return network.Name
		}
	}
	return hash.String()
}

func formatKey(key *btcec.PublicKey) string {
	if key == nil {
		return ""
	}
	return hex.EncodeToString(key.SerializeCompressed())
}

func newOfferView(offer *bolt12.Offer) (offerView, error) {
	id, err := offer.ID()
	if err != nil {
		return offerView{}, err
	}

	view := offerView{
		Id:           hex.EncodeToString(id[:]),
		Currency:     offer.Currency,
		AmountMsat:   offer.AmountMsat,
		MinAmountSat: offer.MinAmountSat,
		Description:  offer.Description,
		Issuer:       offer.Issuer,
		IssuerId:     formatKey(offer.IssuerID),
		QuantityMax:  offer.QuantityMax,
		Paths:        len(offer.Paths),
	}
	for _, chain := range offer.EffectiveChains() {
		view.Chains = append(view.Chains, chainName(chain))
	}
	if offer.AbsoluteExpiry != nil {
		expiry := offer.AbsoluteExpiry.Unix()
		view.AbsoluteExpiry = &expiry
	}
	for _, signer := range offer.Signers() {
		view.Signers = append(view.Signers, formatKey(signer))
	}
	return view, nil
}

func newInvoiceView(invoice *bolt12.Invoice, network *chaincfg.Params) (invoiceView, error) {
	view := invoiceView{
		Chain:       chainName(invoice.Chain),
		AmountMsat:  invoice.AmountMsat,
		AmountSat:   invoice.AmountSat,
		Quantity:    invoice.Quantity,
		PaymentHash: invoice.PaymentHash.String(),
		CreatedAt:   invoice.CreatedAt.Unix(),
		ExpiryDate:  invoice.ExpiryDate.Unix(),
		NodeId:      formatKey(invoice.NodeID),
		PayerKey:    formatKey(invoice.PayerKey),
		PayerNote:   invoice.PayerNote,
		Paths:       len(invoice.Paths),
	}
	if invoice.Bip353Name != nil {
		view.Bip353Name = invoice.Bip353Name.String()
	}

	if invoice.Offer != nil {
		offerId, err := invoice.OfferID()
		if err != nil {
			return invoiceView{}, err
		}
		view.OfferId = hex.EncodeToString(offerId[:])

		offer, err := newOfferView(invoice.Offer)
		if err != nil {
			return invoiceView{}, err
		}
		view.Offer = &offer
	}

	addresses, err := invoice.FallbackAddresses(network)
	if err != nil {
		return invoiceView{}, err
	}
	for _, address := range addresses {
		view.Fallbacks = append(view.Fallbacks, address.EncodeAddress())
	}
	return view, nil
}
