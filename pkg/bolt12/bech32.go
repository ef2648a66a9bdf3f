package bolt12

import (
	"errors"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

var charsetRev [128]int8

func init() {
	for i := range charsetRev {
		charsetRev[i] = -1
	}
	for i := 0; i < len(charset); i++ {
		charsetRev[charset[i]] = int8(i)
	}
}

type decodeOptions struct {
	checksum bool
}

type DecodeOption func(*decodeOptions)

// WithChecksum requires the last six characters of the string to be a valid
// bech32 or bech32m checksum. Standard BOLT12 strings carry no checksum.
func WithChecksum() DecodeOption {
	return func(o *decodeOptions) {
		o.checksum = true
	}
}

// Decode turns a BOLT12 string into its human-readable part and the TLV
// records of its payload, in the order they were encountered. Without
// WithChecksum a tampered string is only caught when the change breaks the
// record framing or a field rule, so such strings are not tamper-evident.
func Decode(text string, opts ...DecodeOption) (string, []RawField, error) {
	var options decodeOptions
	for _, opt := range opts {
		opt(&options)
	}

	hrp, data, err := decodeBech32(text, options.checksum)
	if err != nil {
		return "", nil, err
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, newDecodeError(ErrInvalidEncoding, "could not convert data: %v", err)
	}

	fields, err := DecodeRecords(payload)
	if err != nil {
		return "", nil, err
	}
	return hrp, fields, nil
}

func decodeBech32(text string, checksum bool) (string, []byte, error) {
	if text == "" {
		return "", nil, newDecodeError(ErrInvalidEncoding, "empty string")
	}

	bech, err := joinContinuations(text)
	if err != nil {
		return "", nil, err
	}

	// Only ASCII characters between 33 and 126 are allowed.
	for i := 0; i < len(bech); i++ {
		if bech[i] < 33 || bech[i] > 126 {
			return "", nil, newDecodeError(ErrInvalidEncoding, "invalid character at position %d", i)
		}
	}

	lower := strings.ToLower(bech)
	if bech != lower && bech != strings.ToUpper(bech) {
		return "", nil, newDecodeError(ErrInvalidEncoding, "string not all lowercase or all uppercase")
	}

	if checksum {
		return decodeChecksummed(lower)
	}

	one := strings.LastIndexByte(lower, '1')
	if one < 1 {
		return "", nil, newDecodeError(ErrInvalidEncoding, "missing human-readable part")
	}
	hrp := lower[:one]
	data := lower[one+1:]
	if data == "" {
		return "", nil, newDecodeError(ErrTruncated, "no data after separator")
	}

	decoded := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		value := charsetRev[data[i]]
		if value < 0 {
			return "", nil, newDecodeError(ErrInvalidEncoding, "character %q not part of charset", data[i])
		}
		decoded = append(decoded, byte(value))
	}
	return hrp, decoded, nil
}

func decodeChecksummed(bech string) (string, []byte, error) {
	hrp, data, err := bech32.DecodeNoLimit(bech)
	if err != nil {
		var checksumErr bech32.ErrInvalidChecksum
		if errors.As(err, &checksumErr) {
			return "", nil, newDecodeError(ErrBadChecksum, "%v", err)
		}
		var lengthErr bech32.ErrInvalidLength
		if errors.As(err, &lengthErr) {
			return "", nil, newDecodeError(ErrTruncated, "%v", err)
		}
		return "", nil, newDecodeError(ErrInvalidEncoding, "%v", err)
	}
	if len(data) == 0 {
		return "", nil, newDecodeError(ErrTruncated, "no data after separator")
	}
	return hrp, data, nil
}

// joinContinuations removes "+" followed by optional whitespace between two
// data characters, which BOLT12 allows for splitting long strings.
func joinContinuations(text string) (string, error) {
	if !strings.Contains(text, "+") {
		return text, nil
	}

	var builder strings.Builder
	builder.Grow(len(text))

	for i := 0; i < len(text); i++ {
		if text[i] != '+' {
			builder.WriteByte(text[i])
			continue
		}
		if builder.Len() == 0 || isSpace(text[i-1]) {
			return "", newDecodeError(ErrInvalidEncoding, "continuation at position %d without preceding data", i)
		}
		for i+1 < len(text) && isSpace(text[i+1]) {
			i++
		}
		if i+1 >= len(text) || text[i+1] == '+' {
			return "", newDecodeError(ErrInvalidEncoding, "continuation at position %d without following data", i)
		}
	}
	return builder.String(), nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Encode renders records as a standard, checksum-less BOLT12 string.
func Encode(hrp string, fields []RawField) (string, error) {
	return encodePayload(hrp, EncodeRecords(fields))
}

func encodePayload(hrp string, payload []byte) (string, error) {
	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	builder.Grow(len(hrp) + 1 + len(converted))
	builder.WriteString(hrp)
	builder.WriteByte('1')
	for _, value := range converted {
		builder.WriteByte(charset[value])
	}
	return builder.String(), nil
}

// EncodeWithChecksum renders records with a trailing bech32m checksum, to be
// decoded with WithChecksum.
func EncodeWithChecksum(hrp string, fields []RawField) (string, error) {
	converted, err := bech32.ConvertBits(EncodeRecords(fields), 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.EncodeM(hrp, converted)
}
