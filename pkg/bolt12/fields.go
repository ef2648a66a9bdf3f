package bolt12

import (
	"bytes"
	"encoding/binary"
	"errors"
	"unicode/utf8"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/tlv"
)

func readTu64(field RawField) (uint64, error) {
	var value uint64
	var buf [8]byte
	err := tlv.DTUint64(bytes.NewReader(field.Value), &value, &buf, uint64(len(field.Value)))
	if err != nil {
		if errors.Is(err, tlv.ErrTUintNotMinimal) {
			return 0, malformedField(field.Type, "integer not minimally encoded")
		}
		return 0, malformedField(field.Type, "integer of %d bytes", len(field.Value))
	}
	return value, nil
}

func readTu32(field RawField) (uint32, error) {
	var value uint32
	var buf [8]byte
	err := tlv.DTUint32(bytes.NewReader(field.Value), &value, &buf, uint64(len(field.Value)))
	if err != nil {
		if errors.Is(err, tlv.ErrTUintNotMinimal) {
			return 0, malformedField(field.Type, "integer not minimally encoded")
		}
		return 0, malformedField(field.Type, "integer of %d bytes", len(field.Value))
	}
	return value, nil
}

func writeTu64(value uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], value)
	return bytes.TrimLeft(buf[:], "\x00")
}

func readString(field RawField) (string, error) {
	if !utf8.Valid(field.Value) {
		return "", malformedField(field.Type, "invalid utf-8")
	}
	return string(field.Value), nil
}

func readPoint(field RawField) (*btcec.PublicKey, error) {
	if len(field.Value) != btcec.PubKeyBytesLenCompressed {
		return nil, malformedField(field.Type, "public key of %d bytes", len(field.Value))
	}
	key, err := btcec.ParsePubKey(field.Value)
	if err != nil {
		return nil, malformedField(field.Type, "invalid public key: %v", err)
	}
	return key, nil
}

func readSha256(field RawField) ([32]byte, error) {
	var hash [32]byte
	if len(field.Value) != len(hash) {
		return hash, malformedField(field.Type, "hash of %d bytes", len(field.Value))
	}
	copy(hash[:], field.Value)
	return hash, nil
}

func readChainHashes(field RawField) ([]chainhash.Hash, error) {
	if len(field.Value)%chainhash.HashSize != 0 {
		return nil, malformedField(field.Type, "length %d is not a multiple of %d", len(field.Value), chainhash.HashSize)
	}
	chains := make([]chainhash.Hash, 0, len(field.Value)/chainhash.HashSize)
	for i := 0; i < len(field.Value); i += chainhash.HashSize {
		var hash chainhash.Hash
		copy(hash[:], field.Value[i:i+chainhash.HashSize])
		chains = append(chains, hash)
	}
	return chains, nil
}

func writeChainHashes(chains []chainhash.Hash) []byte {
	value := make([]byte, 0, len(chains)*chainhash.HashSize)
	for _, chain := range chains {
		value = append(value, chain[:]...)
	}
	return value
}
