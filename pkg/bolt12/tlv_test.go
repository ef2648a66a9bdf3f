package bolt12

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeRecords(t *testing.T) {
	fields, err := DecodeRecords([]byte{
		0x02, 0x01, 0xaa,
		0xfd, 0x00, 0xfd, 0x00,
		0xfe, 0xb2, 0xd0, 0x5e, 0x00, 0x02, 0x01, 0x02,
	})
	require.NoError(t, err)
	require.Equal(t, []RawField{
		{Type: 2, Value: []byte{0xaa}},
		{Type: 253, Value: []byte{}},
		{Type: 3_000_000_000, Value: []byte{0x01, 0x02}},
	}, fields)

	require.Equal(t, []byte{0xfe, 0xb2, 0xd0, 0x5e, 0x00, 0x02, 0x01, 0x02}, fields[2].Bytes())
}

func TestDecodeRecordsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		err     error
	}{
		{"LengthMissing", []byte{0x02}, ErrTruncated},
		{"TypeCutShort", []byte{0xfd, 0x01}, ErrTruncated},
		{"LengthCutShort", []byte{0x02, 0xfe, 0x00}, ErrTruncated},
		{"ValueCutShort", []byte{0x02, 0x05, 0x01, 0x02}, ErrTruncated},
		{"NonCanonicalType", []byte{0xfd, 0x00, 0x01, 0x00}, ErrInvalidEncoding},
		{"NonCanonicalLength", []byte{0x02, 0xfd, 0x00, 0x01, 0xaa}, ErrInvalidEncoding},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields, err := DecodeRecords(tc.payload)
			require.ErrorIs(t, err, tc.err)
			require.Nil(t, fields)
		})
	}
}

func TestEncodeRecords(t *testing.T) {
	fields := []RawField{
		{Type: 0, Value: []byte{0x01}},
		{Type: 240, Value: make([]byte, 64)},
		{Type: 1_000_000_001, Value: []byte("experimental")},
	}

	decoded, err := DecodeRecords(EncodeRecords(fields))
	require.NoError(t, err)
	require.Equal(t, fields, decoded)
}

func TestCheckAscending(t *testing.T) {
	require.NoError(t, checkAscending([]RawField{{Type: 1}, {Type: 2}, {Type: 1000}}))
	require.NoError(t, checkAscending(nil))

	err := checkAscending([]RawField{{Type: 2}, {Type: 2}})
	require.ErrorIs(t, err, ErrMalformedField)
	require.ErrorContains(t, err, "duplicate")

	err = checkAscending([]RawField{{Type: 10}, {Type: 8}})
	require.ErrorIs(t, err, ErrMalformedField)
	require.ErrorContains(t, err, "ascending")
}

func TestSortRecords(t *testing.T) {
	fields := []RawField{{Type: 176}, {Type: 2}, {Type: 88}}
	sortRecords(fields)
	require.Equal(t, []RawField{{Type: 2}, {Type: 88}, {Type: 176}}, fields)
}
