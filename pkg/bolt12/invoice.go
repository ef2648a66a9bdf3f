package bolt12

import (
	"fmt"
	"slices"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/lnwire"
)

// DefaultRelativeExpiry applies when an invoice has no
// invoice_relative_expiry, counted from invoice_created_at.
const DefaultRelativeExpiry = 7200 * time.Second

type Invoice struct {
	// Offer is the mirrored offer, nil for invoices that answer a refund
	// rather than an offer.
	Offer *Offer
	// OfferReference holds the serialized mirrored offer records.
	OfferReference []byte

	InvreqMetadata   []byte
	Chain            chainhash.Hash
	InvreqAmountMsat *uint64
	InvreqFeatures   *lnwire.FeatureVector
	Quantity         *uint64
	PayerKey         *btcec.PublicKey
	PayerNote        *string
	InvreqPaths      []BlindedPath
	Bip353Name       *Bip353Name

	Paths          []BlindedPath
	PayInfo        []BlindedPayInfo
	CreatedAt      time.Time
	RelativeExpiry time.Duration
	ExpiryDate     time.Time
	PaymentHash    lntypes.Hash
	AmountMsat     uint64
	AmountSat      uint64
	Fallbacks      []Fallback
	Features       *lnwire.FeatureVector
	NodeID         *btcec.PublicKey
	Signature      *schnorr.Signature

	Unknown []RawField
}

// DecodeInvoice decodes an "lni" string, validates its fields and verifies
// its signature.
func DecodeInvoice(text string, opts ...DecodeOption) (*Invoice, error) {
	hrp, fields, err := Decode(text, opts...)
	if err != nil {
		return nil, err
	}
	if hrp != InvoiceHRP {
		return nil, newDecodeError(ErrInvalidEncoding, "invalid HRP %q, expected %q", hrp, InvoiceHRP)
	}
	return ParseInvoice(fields)
}

func ParseInvoice(fields []RawField) (*Invoice, error) {
	if err := checkAscending(fields); err != nil {
		return nil, err
	}

	invoice := &Invoice{
		Chain:          *chaincfg.MainNetParams.GenesisHash,
		RelativeExpiry: DefaultRelativeExpiry,
	}

	var offerFields []RawField
	seen := make(map[uint64]bool)

	for _, field := range fields {
		if !isInvoiceType(field.Type) {
			return nil, malformedField(field.Type, "not allowed in an invoice")
		}
		seen[field.Type] = true

		if isOfferType(field.Type) {
			offerFields = append(offerFields, field)
			continue
		}
		if err := invoice.apply(field); err != nil {
			return nil, err
		}
	}

	for _, required := range []uint64{
		typeInvoicePaths, typeInvoiceBlindedPay, typeInvoiceCreatedAt,
		typeInvoicePaymentHash, typeInvoiceAmount, typeInvoiceNodeID, typeSignature,
	} {
		if !seen[required] {
			return nil, missingField(required)
		}
	}

	if len(invoice.PayInfo) != len(invoice.Paths) {
		return nil, malformedField(
			typeInvoiceBlindedPay, "%d payinfo entries for %d paths", len(invoice.PayInfo), len(invoice.Paths),
		)
	}
	if invoice.AmountMsat == 0 {
		return nil, malformedField(typeInvoiceAmount, "amount must not be zero")
	}
	invoice.AmountSat = MsatToSat(invoice.AmountMsat)
	invoice.ExpiryDate = invoice.CreatedAt.Add(invoice.RelativeExpiry)

	if len(offerFields) > 0 {
		offer, err := ParseOffer(offerFields)
		if err != nil {
			return nil, fmt.Errorf("invalid mirrored offer: %w", err)
		}
		if offer.IssuerID != nil && !offer.IssuerID.IsEqual(invoice.NodeID) {
			return nil, malformedField(typeInvoiceNodeID, "does not match offer_issuer_id")
		}
		invoice.Offer = offer
		invoice.OfferReference = EncodeRecords(offerFields)
	}

	if err := invoice.verifySignature(fields); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (invoice *Invoice) apply(field RawField) (err error) {
	switch field.Type {
	case typeInvreqMetadata:
		invoice.InvreqMetadata = slices.Clone(field.Value)

	case typeInvreqChain:
		var chain [32]byte
		if chain, err = readSha256(field); err == nil {
			invoice.Chain = chain
		}

	case typeInvreqAmount:
		var amount uint64
		if amount, err = readTu64(field); err == nil {
			invoice.InvreqAmountMsat = &amount
		}

	case typeInvreqFeatures:
		invoice.InvreqFeatures, err = readFeatures(field)

	case typeInvreqQuantity:
		var quantity uint64
		if quantity, err = readTu64(field); err == nil {
			invoice.Quantity = &quantity
		}

	case typeInvreqPayerID:
		invoice.PayerKey, err = readPoint(field)

	case typeInvreqPayerNote:
		var note string
		if note, err = readString(field); err == nil {
			invoice.PayerNote = &note
		}

	case typeInvreqPaths:
		invoice.InvreqPaths, err = readBlindedPaths(field)

	case typeInvreqBip353Name:
		invoice.Bip353Name, err = readBip353Name(field)

	case typeInvoicePaths:
		invoice.Paths, err = readBlindedPaths(field)

	case typeInvoiceBlindedPay:
		invoice.PayInfo, err = readBlindedPayInfos(field)

	case typeInvoiceCreatedAt:
		var seconds uint64
		if seconds, err = readTu64(field); err == nil {
			invoice.CreatedAt = time.Unix(int64(seconds), 0)
		}

	case typeInvoiceRelExpiry:
		var seconds uint32
		if seconds, err = readTu32(field); err == nil {
			invoice.RelativeExpiry = time.Duration(seconds) * time.Second
		}

	case typeInvoicePaymentHash:
		var hash [32]byte
		if hash, err = readSha256(field); err == nil {
			invoice.PaymentHash = hash
		}

	case typeInvoiceAmount:
		invoice.AmountMsat, err = readTu64(field)

	case typeInvoiceFallbacks:
		invoice.Fallbacks, err = readFallbacks(field)

	case typeInvoiceFeatures:
		invoice.Features, err = readFeatures(field)

	case typeInvoiceNodeID:
		invoice.NodeID, err = readPoint(field)

	case typeSignature:
		if len(field.Value) != schnorr.SignatureSize {
			return malformedField(field.Type, "signature of %d bytes", len(field.Value))
		}
		if invoice.Signature, err = schnorr.ParseSignature(field.Value); err != nil {
			return newParseError(ErrBadSignature, field.Type, err.Error())
		}

	default:
		if isRequired(field.Type) {
			return newParseError(ErrUnknownRequiredField, field.Type, "")
		}
		invoice.Unknown = append(invoice.Unknown, field.clone())
	}
	return err
}

func (invoice *Invoice) verifySignature(fields []RawField) error {
	hash, err := SignatureHash("invoice", "signature", fields)
	if err != nil {
		return newParseError(ErrBadSignature, typeSignature, err.Error())
	}
	if !invoice.Signature.Verify(hash[:], invoice.NodeID) {
		return newParseError(ErrBadSignature, typeSignature, "signature does not match invoice_node_id")
	}
	return nil
}

// OfferID is the merkle root of the mirrored offer records, comparable to
// Offer.ID.
func (invoice *Invoice) OfferID() ([32]byte, error) {
	if invoice.Offer == nil {
		return [32]byte{}, fmt.Errorf("invoice does not reference an offer")
	}
	return invoice.Offer.ID()
}

func (invoice *Invoice) Expired(now time.Time) bool {
	return !now.Before(invoice.ExpiryDate)
}

// FallbackAddresses converts the on-chain fallbacks into addresses for the
// given network. Unknown witness versions are skipped.
func (invoice *Invoice) FallbackAddresses(params *chaincfg.Params) ([]btcutil.Address, error) {
	var addresses []btcutil.Address
	for _, fallback := range invoice.Fallbacks {
		var address btcutil.Address
		var err error

		switch {
		case fallback.Version == 0 && len(fallback.Address) == 20:
			address, err = btcutil.NewAddressWitnessPubKeyHash(fallback.Address, params)
		case fallback.Version == 0 && len(fallback.Address) == 32:
			address, err = btcutil.NewAddressWitnessScriptHash(fallback.Address, params)
		case fallback.Version == 1 && len(fallback.Address) == 32:
			address, err = btcutil.NewAddressTaproot(fallback.Address, params)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("invalid fallback address: %w", err)
		}
		addresses = append(addresses, address)
	}
	return addresses, nil
}
