package bolt12

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lightningnetwork/lnd/lnwire"
)

// IntroductionNode is the sciddir_or_pubkey entry point of a blinded path:
// either a node id or a short channel id plus the direction of the channel.
type IntroductionNode struct {
	NodeID         *btcec.PublicKey
	ShortChannelID *lnwire.ShortChannelID
	Direction      byte
}

type BlindedHop struct {
	BlindedNodeID *btcec.PublicKey
	EncryptedData []byte
}

type BlindedPath struct {
	Introduction IntroductionNode
	PathKey      *btcec.PublicKey
	Hops         []BlindedHop
}

// FinalNodeID is the blinded id of the recipient at the end of the path.
func (path *BlindedPath) FinalNodeID() *btcec.PublicKey {
	if len(path.Hops) == 0 {
		return nil
	}
	return path.Hops[len(path.Hops)-1].BlindedNodeID
}

type BlindedPayInfo struct {
	FeeBaseMsat               uint32
	FeeProportionalMillionths uint32
	CltvExpiryDelta           uint16
	HtlcMinimumMsat           uint64
	HtlcMaximumMsat           uint64
	Features                  *lnwire.RawFeatureVector
}

// Bip353Name is the human readable name the payer resolved the offer from.
type Bip353Name struct {
	Name   string
	Domain string
}

func (name Bip353Name) String() string {
	return name.Name + "@" + name.Domain
}

type Fallback struct {
	Version uint8
	Address []byte
}

type fieldReader struct {
	*bytes.Reader
	field RawField
}

func newFieldReader(field RawField) *fieldReader {
	return &fieldReader{Reader: bytes.NewReader(field.Value), field: field}
}

func (r *fieldReader) fail(format string, args ...any) error {
	return malformedField(r.field.Type, format, args...)
}

func (r *fieldReader) readBytes(n int) ([]byte, error) {
	if n > r.Len() {
		return nil, r.fail("need %d bytes, %d left", n, r.Len())
	}
	value := make([]byte, n)
	if _, err := io.ReadFull(r, value); err != nil {
		return nil, r.fail("%v", err)
	}
	return value, nil
}

func (r *fieldReader) readPoint() (*btcec.PublicKey, error) {
	raw, err := r.readBytes(btcec.PubKeyBytesLenCompressed)
	if err != nil {
		return nil, err
	}
	key, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, r.fail("invalid public key: %v", err)
	}
	return key, nil
}

func (r *fieldReader) readUint(size int) (uint64, error) {
	raw, err := r.readBytes(size)
	if err != nil {
		return 0, err
	}
	switch size {
	case 1:
		return uint64(raw[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(raw)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(raw)), nil
	default:
		return binary.BigEndian.Uint64(raw), nil
	}
}

// readName reads a u8 length prefixed name limited to the characters BIP 353
// allows.
func (r *fieldReader) readName() (string, error) {
	length, err := r.readUint(1)
	if err != nil {
		return "", err
	}
	raw, err := r.readBytes(int(length))
	if err != nil {
		return "", err
	}
	for _, c := range raw {
		valid := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			c == '-' || c == '_' || c == '.'
		if !valid {
			return "", r.fail("invalid character %q in name", c)
		}
	}
	return string(raw), nil
}

func readBip353Name(field RawField) (*Bip353Name, error) {
	r := newFieldReader(field)

	var name Bip353Name
	var err error
	if name.Name, err = r.readName(); err != nil {
		return nil, err
	}
	if name.Domain, err = r.readName(); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, r.fail("%d trailing bytes", r.Len())
	}
	return &name, nil
}

func (r *fieldReader) readIntroductionNode() (IntroductionNode, error) {
	prefix, err := r.ReadByte()
	if err != nil {
		return IntroductionNode{}, r.fail("missing introduction node")
	}
	switch prefix {
	case 0, 1:
		scid, err := r.readUint(8)
		if err != nil {
			return IntroductionNode{}, err
		}
		channel := lnwire.NewShortChanIDFromInt(scid)
		return IntroductionNode{ShortChannelID: &channel, Direction: prefix}, nil
	case 2, 3:
		if err := r.UnreadByte(); err != nil {
			return IntroductionNode{}, r.fail("%v", err)
		}
		key, err := r.readPoint()
		if err != nil {
			return IntroductionNode{}, err
		}
		return IntroductionNode{NodeID: key}, nil
	default:
		return IntroductionNode{}, r.fail("invalid introduction node prefix %d", prefix)
	}
}

func (r *fieldReader) readBlindedPath() (BlindedPath, error) {
	var path BlindedPath
	var err error

	if path.Introduction, err = r.readIntroductionNode(); err != nil {
		return path, err
	}
	if path.PathKey, err = r.readPoint(); err != nil {
		return path, err
	}

	numHops, err := r.readUint(1)
	if err != nil {
		return path, err
	}
	if numHops == 0 {
		return path, r.fail("blinded path without hops")
	}

	path.Hops = make([]BlindedHop, 0, numHops)
	for i := uint64(0); i < numHops; i++ {
		var hop BlindedHop
		if hop.BlindedNodeID, err = r.readPoint(); err != nil {
			return path, err
		}
		length, err := r.readUint(2)
		if err != nil {
			return path, err
		}
		if hop.EncryptedData, err = r.readBytes(int(length)); err != nil {
			return path, err
		}
		path.Hops = append(path.Hops, hop)
	}
	return path, nil
}

func readBlindedPaths(field RawField) ([]BlindedPath, error) {
	reader := newFieldReader(field)
	var paths []BlindedPath
	for reader.Len() > 0 {
		path, err := reader.readBlindedPath()
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil, malformedField(field.Type, "no paths")
	}
	return paths, nil
}

func writeBlindedPaths(paths []BlindedPath) []byte {
	var buf bytes.Buffer
	for _, path := range paths {
		intro := path.Introduction
		if intro.NodeID != nil {
			buf.Write(intro.NodeID.SerializeCompressed())
		} else if intro.ShortChannelID != nil {
			buf.WriteByte(intro.Direction)
			_ = binary.Write(&buf, binary.BigEndian, intro.ShortChannelID.ToUint64())
		}
		buf.Write(path.PathKey.SerializeCompressed())
		buf.WriteByte(byte(len(path.Hops)))
		for _, hop := range path.Hops {
			buf.Write(hop.BlindedNodeID.SerializeCompressed())
			_ = binary.Write(&buf, binary.BigEndian, uint16(len(hop.EncryptedData)))
			buf.Write(hop.EncryptedData)
		}
	}
	return buf.Bytes()
}

func readBlindedPayInfos(field RawField) ([]BlindedPayInfo, error) {
	reader := newFieldReader(field)
	var infos []BlindedPayInfo
	for reader.Len() > 0 {
		var info BlindedPayInfo
		values := []struct {
			size int
			set  func(uint64)
		}{
			{4, func(v uint64) { info.FeeBaseMsat = uint32(v) }},
			{4, func(v uint64) { info.FeeProportionalMillionths = uint32(v) }},
			{2, func(v uint64) { info.CltvExpiryDelta = uint16(v) }},
			{8, func(v uint64) { info.HtlcMinimumMsat = v }},
			{8, func(v uint64) { info.HtlcMaximumMsat = v }},
		}
		for _, value := range values {
			parsed, err := reader.readUint(value.size)
			if err != nil {
				return nil, err
			}
			value.set(parsed)
		}

		featuresLen, err := reader.readUint(2)
		if err != nil {
			return nil, err
		}
		if featuresLen > uint64(reader.Len()) {
			return nil, reader.fail("features of %d bytes, %d left", featuresLen, reader.Len())
		}
		info.Features = lnwire.NewRawFeatureVector()
		if err := info.Features.DecodeBase256(reader, int(featuresLen)); err != nil {
			return nil, reader.fail("invalid features: %v", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func readFallbacks(field RawField) ([]Fallback, error) {
	reader := newFieldReader(field)
	var fallbacks []Fallback
	for reader.Len() > 0 {
		version, err := reader.readUint(1)
		if err != nil {
			return nil, err
		}
		length, err := reader.readUint(2)
		if err != nil {
			return nil, err
		}
		address, err := reader.readBytes(int(length))
		if err != nil {
			return nil, err
		}
		fallbacks = append(fallbacks, Fallback{Version: uint8(version), Address: address})
	}
	return fallbacks, nil
}

func (node IntroductionNode) String() string {
	if node.NodeID != nil {
		return fmt.Sprintf("%x", node.NodeID.SerializeCompressed())
	}
	if node.ShortChannelID != nil {
		return fmt.Sprintf("%s/%d", node.ShortChannelID, node.Direction)
	}
	return ""
}
