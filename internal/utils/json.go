package utils

import (
	"encoding/hex"

	"github.com/bytedance/sonic"
	"github.com/fxamacker/cbor/v2"
)

// Needs EscapeHTML disabled for descriptions and issuers to be printed as is
var jsonApi = sonic.Config{
	EscapeHTML:  false,
	SortMapKeys: true,
}.Froze()

func FormatJson(resp any) (string, error) {
	encoded, err := jsonApi.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", err
	}
	return string(encoded) + "\n", nil
}

// FormatCbor renders resp as hex encoded CBOR with deterministic map ordering.
func FormatCbor(resp any) (string, error) {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return "", err
	}
	encoded, err := mode.Marshal(resp)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(encoded), nil
}
