package bolt12

import (
	"fmt"
	"slices"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/lnwire"
)

type Offer struct {
	// Chains as declared; empty means bitcoin mainnet is implied.
	Chains         []chainhash.Hash
	Metadata       []byte
	Currency       string
	AmountMsat     *uint64
	MinAmountSat   uint64
	Description    *string
	Features       *lnwire.FeatureVector
	AbsoluteExpiry *time.Time
	Paths          []BlindedPath
	Issuer         *string
	QuantityMax    *uint64
	IssuerID       *btcec.PublicKey

	// Unknown holds odd records this parser does not interpret.
	Unknown []RawField

	// records are the records the offer was decoded from, nil for offers
	// built by hand.
	records []RawField
}

// DecodeOffer decodes and validates an "lno" string.
func DecodeOffer(text string, opts ...DecodeOption) (*Offer, error) {
	hrp, fields, err := Decode(text, opts...)
	if err != nil {
		return nil, err
	}
	if hrp != OfferHRP {
		return nil, newDecodeError(ErrInvalidEncoding, "invalid HRP %q, expected %q", hrp, OfferHRP)
	}
	return ParseOffer(fields)
}

// ParseOffer interprets decoded records as an offer. No partially filled
// offer is ever returned.
func ParseOffer(fields []RawField) (*Offer, error) {
	if err := checkAscending(fields); err != nil {
		return nil, err
	}

	offer := &Offer{}
	for _, field := range fields {
		if !isOfferType(field.Type) {
			return nil, malformedField(field.Type, "not allowed in an offer")
		}
		if err := offer.apply(field); err != nil {
			return nil, err
		}
	}

	if err := offer.validate(fields); err != nil {
		return nil, err
	}
	offer.records = cloneRecords(fields)
	return offer, nil
}

func (offer *Offer) apply(field RawField) (err error) {
	switch field.Type {
	case typeOfferChains:
		offer.Chains, err = readChainHashes(field)

	case typeOfferMetadata:
		offer.Metadata = slices.Clone(field.Value)

	case typeOfferCurrency:
		if len(field.Value) != 3 {
			return malformedField(field.Type, "currency code of %d bytes", len(field.Value))
		}
		offer.Currency, err = readString(field)

	case typeOfferAmount:
		var amount uint64
		if amount, err = readTu64(field); err == nil {
			offer.AmountMsat = &amount
		}

	case typeOfferDescription:
		var description string
		if description, err = readString(field); err == nil {
			offer.Description = &description
		}

	case typeOfferFeatures:
		offer.Features, err = readFeatures(field)

	case typeOfferAbsoluteExpiry:
		var seconds uint64
		if seconds, err = readTu64(field); err == nil {
			expiry := time.Unix(int64(seconds), 0)
			offer.AbsoluteExpiry = &expiry
		}

	case typeOfferPaths:
		offer.Paths, err = readBlindedPaths(field)

	case typeOfferIssuer:
		var issuer string
		if issuer, err = readString(field); err == nil {
			offer.Issuer = &issuer
		}

	case typeOfferQuantityMax:
		var quantity uint64
		if quantity, err = readTu64(field); err == nil {
			offer.QuantityMax = &quantity
		}

	case typeOfferIssuerID:
		offer.IssuerID, err = readPoint(field)

	default:
		if isRequired(field.Type) {
			return newParseError(ErrUnknownRequiredField, field.Type, "")
		}
		offer.Unknown = append(offer.Unknown, field.clone())
	}
	return err
}

func (offer *Offer) validate(fields []RawField) error {
	present := func(t uint64) bool {
		return slices.ContainsFunc(fields, func(field RawField) bool { return field.Type == t })
	}

	if present(typeOfferChains) && len(offer.Chains) == 0 {
		return newParseError(ErrMissingField, typeOfferChains, "empty chain list")
	}
	if offer.AmountMsat != nil && offer.Description == nil {
		return newParseError(ErrMissingField, typeOfferDescription, "required when an amount is set")
	}
	if offer.Currency != "" && offer.AmountMsat == nil {
		return newParseError(ErrMissingField, typeOfferAmount, "required when a currency is set")
	}
	if offer.IssuerID == nil && len(offer.Paths) == 0 {
		return missingField(typeOfferIssuerID)
	}

	if offer.AmountMsat != nil && offer.Currency == "" {
		offer.MinAmountSat = MsatToSat(*offer.AmountMsat)
	}
	return nil
}

// EffectiveChains returns the declared chains or bitcoin mainnet if none
// were declared.
func (offer *Offer) EffectiveChains() []chainhash.Hash {
	if len(offer.Chains) == 0 {
		return []chainhash.Hash{*chaincfg.MainNetParams.GenesisHash}
	}
	return offer.Chains
}

func (offer *Offer) SupportsChain(params *chaincfg.Params) bool {
	return slices.Contains(offer.EffectiveChains(), *params.GenesisHash)
}

func (offer *Offer) Expired(now time.Time) bool {
	return offer.AbsoluteExpiry != nil && !now.Before(*offer.AbsoluteExpiry)
}

// Signers are the keys an invoice for this offer may be signed with: the
// issuer id and the final blinded node of every offer path.
func (offer *Offer) Signers() []*btcec.PublicKey {
	var signers []*btcec.PublicKey
	for i := range offer.Paths {
		if final := offer.Paths[i].FinalNodeID(); final != nil {
			signers = append(signers, final)
		}
	}
	if offer.IssuerID != nil {
		signers = append(signers, offer.IssuerID)
	}
	return signers
}

// Records returns the TLV records of the offer in ascending order. Decoded
// offers keep the exact records they were decoded from, so non-minimal
// encodings survive; offers built by hand are serialized from their fields.
func (offer *Offer) Records() ([]RawField, error) {
	if offer.records != nil {
		return cloneRecords(offer.records), nil
	}

	var fields []RawField
	add := func(t uint64, value []byte) {
		fields = append(fields, RawField{Type: t, Value: value})
	}

	if len(offer.Chains) > 0 {
		add(typeOfferChains, writeChainHashes(offer.Chains))
	}
	if offer.Metadata != nil {
		add(typeOfferMetadata, slices.Clone(offer.Metadata))
	}
	if offer.Currency != "" {
		add(typeOfferCurrency, []byte(offer.Currency))
	}
	if offer.AmountMsat != nil {
		add(typeOfferAmount, writeTu64(*offer.AmountMsat))
	}
	if offer.Description != nil {
		add(typeOfferDescription, []byte(*offer.Description))
	}
	if offer.Features != nil {
		features, err := writeFeatures(offer.Features)
		if err != nil {
			return nil, fmt.Errorf("could not encode features: %w", err)
		}
		add(typeOfferFeatures, features)
	}
	if offer.AbsoluteExpiry != nil {
		add(typeOfferAbsoluteExpiry, writeTu64(uint64(offer.AbsoluteExpiry.Unix())))
	}
	if len(offer.Paths) > 0 {
		add(typeOfferPaths, writeBlindedPaths(offer.Paths))
	}
	if offer.Issuer != nil {
		add(typeOfferIssuer, []byte(*offer.Issuer))
	}
	if offer.QuantityMax != nil {
		add(typeOfferQuantityMax, writeTu64(*offer.QuantityMax))
	}
	if offer.IssuerID != nil {
		add(typeOfferIssuerID, offer.IssuerID.SerializeCompressed())
	}
	for _, field := range offer.Unknown {
		fields = append(fields, field.clone())
	}

	sortRecords(fields)
	return fields, nil
}

// Encode renders the offer as a standard "lno" string.
func (offer *Offer) Encode() (string, error) {
	fields, err := offer.Records()
	if err != nil {
		return "", err
	}
	return Encode(OfferHRP, fields)
}

// ID is the merkle root of the offer records as they were decoded, which is
// also what an invoice mirroring this offer hashes its offer fields to.
func (offer *Offer) ID() ([32]byte, error) {
	fields, err := offer.Records()
	if err != nil {
		return [32]byte{}, err
	}
	return MerkleRoot(fields)
}

func MsatToSat(msat uint64) uint64 {
	sat := msat / 1000
	if msat%1000 != 0 {
		sat++
	}
	return sat
}
