package bolt12

import (
	"errors"
	"fmt"
)

// Encoding level failures, wrapped by *DecodeError.
var (
	ErrBadChecksum     = errors.New("bad checksum")
	ErrTruncated       = errors.New("truncated")
	ErrInvalidEncoding = errors.New("invalid encoding")
)

// Semantic failures, wrapped by *ParseError.
var (
	ErrMissingField         = errors.New("missing field")
	ErrMalformedField       = errors.New("malformed field")
	ErrUnknownRequiredField = errors.New("unknown required field")
	ErrBadSignature         = errors.New("bad signature")
)

// Binding failures returned by VerifyInvoiceForOffer.
var (
	ErrWrongOffer   = errors.New("invoice does not mirror the offer")
	ErrWrongSigner  = errors.New("invoice is not signed by the offer issuer")
	ErrAmountTooLow = errors.New("invoice amount is below the offer amount")
)

type DecodeError struct {
	Kind   error
	Reason string
}

func newDecodeError(kind error, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func (e *DecodeError) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Reason
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

// ParseError describes a record that could not be interpreted. Type is the
// TLV type of the offending record (or of the missing one).
type ParseError struct {
	Kind   error
	Type   uint64
	Field  string
	Reason string
}

func newParseError(kind error, t uint64, reason string) *ParseError {
	return &ParseError{Kind: kind, Type: t, Field: fieldName(t), Reason: reason}
}

func missingField(t uint64) *ParseError {
	return newParseError(ErrMissingField, t, "")
}

func malformedField(t uint64, format string, args ...any) *ParseError {
	return newParseError(ErrMalformedField, t, fmt.Sprintf(format, args...))
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s %s (type %d)", e.Kind, e.Field, e.Type)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}
