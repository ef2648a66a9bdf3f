package bolt12

import "fmt"

const (
	OfferHRP          = "lno"
	InvoiceRequestHRP = "lnr"
	InvoiceHRP        = "lni"
)

const (
	typeInvreqMetadata       uint64 = 0
	typeOfferChains          uint64 = 2
	typeOfferMetadata        uint64 = 4
	typeOfferCurrency        uint64 = 6
	typeOfferAmount          uint64 = 8
	typeOfferDescription     uint64 = 10
	typeOfferFeatures        uint64 = 12
	typeOfferAbsoluteExpiry  uint64 = 14
	typeOfferPaths           uint64 = 16
	typeOfferIssuer          uint64 = 18
	typeOfferQuantityMax     uint64 = 20
	typeOfferIssuerID        uint64 = 22
	typeInvreqChain          uint64 = 80
	typeInvreqAmount         uint64 = 82
	typeInvreqFeatures       uint64 = 84
	typeInvreqQuantity       uint64 = 86
	typeInvreqPayerID        uint64 = 88
	typeInvreqPayerNote      uint64 = 89
	typeInvreqPaths          uint64 = 90
	typeInvreqBip353Name     uint64 = 91
	typeInvoicePaths         uint64 = 160
	typeInvoiceBlindedPay    uint64 = 162
	typeInvoiceCreatedAt     uint64 = 164
	typeInvoiceRelExpiry     uint64 = 166
	typeInvoicePaymentHash   uint64 = 168
	typeInvoiceAmount        uint64 = 170
	typeInvoiceFallbacks     uint64 = 172
	typeInvoiceFeatures      uint64 = 174
	typeInvoiceNodeID        uint64 = 176
	typeSignature            uint64 = 240
	signatureRangeEnd        uint64 = 1000
	experimentalOfferStart   uint64 = 1_000_000_000
	experimentalInvreqStart  uint64 = 2_000_000_000
	experimentalInvoiceStart uint64 = 3_000_000_000
	experimentalInvoiceEnd   uint64 = 3_999_999_999
)

var fieldNames = map[uint64]string{
	typeInvreqMetadata:      "invreq_metadata",
	typeOfferChains:         "offer_chains",
	typeOfferMetadata:       "offer_metadata",
	typeOfferCurrency:       "offer_currency",
	typeOfferAmount:         "offer_amount",
	typeOfferDescription:    "offer_description",
	typeOfferFeatures:       "offer_features",
	typeOfferAbsoluteExpiry: "offer_absolute_expiry",
	typeOfferPaths:          "offer_paths",
	typeOfferIssuer:         "offer_issuer",
	typeOfferQuantityMax:    "offer_quantity_max",
	typeOfferIssuerID:       "offer_issuer_id",
	typeInvreqChain:         "invreq_chain",
	typeInvreqAmount:        "invreq_amount",
	typeInvreqFeatures:      "invreq_features",
	typeInvreqQuantity:      "invreq_quantity",
	typeInvreqPayerID:       "invreq_payer_id",
	typeInvreqPayerNote:     "invreq_payer_note",
	typeInvreqPaths:         "invreq_paths",
	typeInvreqBip353Name:    "invreq_bip_353_name",
	typeInvoicePaths:        "invoice_paths",
	typeInvoiceBlindedPay:   "invoice_blindedpay",
	typeInvoiceCreatedAt:    "invoice_created_at",
	typeInvoiceRelExpiry:    "invoice_relative_expiry",
	typeInvoicePaymentHash:  "invoice_payment_hash",
	typeInvoiceAmount:       "invoice_amount",
	typeInvoiceFallbacks:    "invoice_fallbacks",
	typeInvoiceFeatures:     "invoice_features",
	typeInvoiceNodeID:       "invoice_node_id",
	typeSignature:           "signature",
}

func fieldName(t uint64) string {
	if name, ok := fieldNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown_%d", t)
}

func isOfferType(t uint64) bool {
	return (t >= 1 && t <= 79) || (t >= experimentalOfferStart && t < experimentalInvreqStart)
}

func isInvoiceRequestType(t uint64) bool {
	return t <= 159 || (t >= experimentalOfferStart && t < experimentalInvoiceStart)
}

func isSignatureType(t uint64) bool {
	return t >= typeSignature && t <= signatureRangeEnd
}

func isInvoiceType(t uint64) bool {
	return isInvoiceRequestType(t) || (t >= typeInvoicePaths && t < typeSignature) ||
		isSignatureType(t) || (t >= experimentalInvoiceStart && t <= experimentalInvoiceEnd)
}

// it's okay to be odd
func isRequired(t uint64) bool {
	return t%2 == 0
}
