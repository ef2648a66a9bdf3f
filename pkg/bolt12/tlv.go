package bolt12

import (
	"bytes"
	"cmp"
	"errors"
	"io"
	"slices"

	"github.com/lightningnetwork/lnd/tlv"
)

// RawField is a single TLV record. Value is always a private copy.
type RawField struct {
	Type  uint64
	Value []byte
}

// DecodeRecords splits a TLV stream into its records. Ordering and
// uniqueness of the types are left to the parsers.
func DecodeRecords(payload []byte) ([]RawField, error) {
	reader := bytes.NewReader(payload)

	var buf [8]byte
	var fields []RawField

	for reader.Len() > 0 {
		recordType, err := tlv.ReadVarInt(reader, &buf)
		if err != nil {
			return nil, varIntError("type", err)
		}

		length, err := tlv.ReadVarInt(reader, &buf)
		if err != nil {
			return nil, varIntError("length", err)
		}

		if length > uint64(reader.Len()) {
			return nil, newDecodeError(
				ErrTruncated, "record %d declares %d bytes but only %d remain", recordType, length, reader.Len(),
			)
		}

		value := make([]byte, length)
		if _, err := io.ReadFull(reader, value); err != nil {
			return nil, newDecodeError(ErrTruncated, "could not read record %d: %v", recordType, err)
		}

		fields = append(fields, RawField{Type: recordType, Value: value})
	}

	return fields, nil
}

func varIntError(name string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return newDecodeError(ErrTruncated, "record %s cut short", name)
	}
	if errors.Is(err, tlv.ErrVarIntNotCanonical) {
		return newDecodeError(ErrInvalidEncoding, "record %s is not canonically encoded", name)
	}
	return newDecodeError(ErrInvalidEncoding, "record %s: %v", name, err)
}

func EncodeRecords(fields []RawField) []byte {
	var buf bytes.Buffer
	for _, field := range fields {
		field.writeTo(&buf)
	}
	return buf.Bytes()
}

// Bytes returns the canonical serialization of the record.
func (f RawField) Bytes() []byte {
	var buf bytes.Buffer
	f.writeTo(&buf)
	return buf.Bytes()
}

func (f RawField) writeTo(buf *bytes.Buffer) {
	var scratch [8]byte
	// writes to a bytes.Buffer never fail
	_ = tlv.WriteVarInt(buf, f.Type, &scratch)
	_ = tlv.WriteVarInt(buf, uint64(len(f.Value)), &scratch)
	buf.Write(f.Value)
}

func typeBytes(t uint64) []byte {
	var buf bytes.Buffer
	var scratch [8]byte
	_ = tlv.WriteVarInt(&buf, t, &scratch)
	return buf.Bytes()
}

func (f RawField) clone() RawField {
	return RawField{Type: f.Type, Value: slices.Clone(f.Value)}
}

func cloneRecords(fields []RawField) []RawField {
	cloned := make([]RawField, len(fields))
	for i, field := range fields {
		cloned[i] = field.clone()
	}
	return cloned
}

// checkAscending enforces strictly increasing record types, which also rules
// out duplicates.
func checkAscending(fields []RawField) error {
	for i := 1; i < len(fields); i++ {
		if fields[i].Type <= fields[i-1].Type {
			if fields[i].Type == fields[i-1].Type {
				return malformedField(fields[i].Type, "duplicate record")
			}
			return malformedField(fields[i].Type, "records not in ascending order")
		}
	}
	return nil
}

func sortRecords(fields []RawField) {
	slices.SortFunc(fields, func(a, b RawField) int {
		return cmp.Compare(a.Type, b.Type)
	})
}
