package bolt12

import (
	"bytes"
	"errors"

	"github.com/minio/sha256-simd"
)

var (
	leafTag   = tagHash([]byte("LnLeaf"))
	branchTag = tagHash([]byte("LnBranch"))
)

func tagHash(tag []byte) [32]byte {
	return sha256.Sum256(tag)
}

// taggedHash is the BIP340 style SHA256(SHA256(tag) || SHA256(tag) || msg)
// with the tag already hashed.
func taggedHash(tag [32]byte, msgs ...[]byte) [32]byte {
	hasher := sha256.New()
	hasher.Write(tag[:])
	hasher.Write(tag[:])
	for _, msg := range msgs {
		hasher.Write(msg)
	}
	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	return sum
}

func branchHash(a, b [32]byte) [32]byte {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return taggedHash(branchTag, a[:], b[:])
}

// MerkleRoot computes the BOLT12 merkle root over all records outside of the
// signature range.
func MerkleRoot(fields []RawField) ([32]byte, error) {
	var nonceTag [32]byte
	var nodes [][32]byte

	for _, field := range fields {
		if isSignatureType(field.Type) {
			continue
		}
		record := field.Bytes()
		if nodes == nil {
			nonceTag = tagHash(append([]byte("LnNonce"), record...))
		}
		leaf := taggedHash(leafTag, record)
		nonce := taggedHash(nonceTag, typeBytes(field.Type))
		nodes = append(nodes, branchHash(leaf, nonce))
	}

	if len(nodes) == 0 {
		return [32]byte{}, errors.New("no records to hash")
	}

	// the tree is deepest on the lowest order leaves
	for level := 1; level < len(nodes); level *= 2 {
		for i := 0; i+level < len(nodes); i += 2 * level {
			nodes[i] = branchHash(nodes[i], nodes[i+level])
		}
	}
	return nodes[0], nil
}

// SignatureHash is the digest that gets signed for a message of the given
// name ("invoice", "invoice_request") and signature field.
func SignatureHash(messageName, fieldName string, fields []RawField) ([32]byte, error) {
	root, err := MerkleRoot(fields)
	if err != nil {
		return root, err
	}
	tag := tagHash([]byte("lightning" + messageName + fieldName))
	return taggedHash(tag, root[:]), nil
}
