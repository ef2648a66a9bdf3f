package bolt12

import (
	"bytes"
	"fmt"

	"github.com/lightningnetwork/lnd/lnwire"
)

func readFeatures(field RawField) (*lnwire.FeatureVector, error) {
	raw := lnwire.NewRawFeatureVector()
	if err := raw.DecodeBase256(bytes.NewReader(field.Value), len(field.Value)); err != nil {
		return nil, malformedField(field.Type, "invalid feature vector: %v", err)
	}

	features := lnwire.NewFeatureVector(raw, lnwire.Features)
	if unknown := features.UnknownRequiredFeatures(); len(unknown) > 0 {
		return nil, newParseError(ErrUnknownRequiredField, field.Type, fmt.Sprintf("unknown required feature bits %v", unknown))
	}
	return features, nil
}

func writeFeatures(features *lnwire.FeatureVector) ([]byte, error) {
	var buf bytes.Buffer
	if err := features.RawFeatureVector.EncodeBase256(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
