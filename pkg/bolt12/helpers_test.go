package bolt12

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/stretchr/testify/require"
)

const (
	testOffer   = "lno1pqpzwyq2p32x2um5ypmx2cm5dae8x93pqthvwfzadd7jejes8q9lhc4rvjxd022zv5l44g6qah82ru5rdpnpj"
	testOffer50 = "lno1pqzq97hssq9qksn0d3685gr0venx2usjq4px7mr50gtzzqjpmp39va9dw0qm6l0nq6y8khzj27unfey48vmca2ajultt9gsrlq"

	regtestOffer       = "lno1qgsqvgnwgcg35z6ee2h3yczraddm72xrfua9uve2rlrm9deu7xyfzrc2qqtzzqs0mht2rn9pzxwrqv8fs7qac9nacc3al5cd334e2wn0jztx0syfac"
	regtestAmountOffer = "lno1qgsqvgnwgcg35z6ee2h3yczraddm72xrfua9uve2rlrm9deu7xyfzrcgqgn3qzsyw3jhxaqkyypqlhwk58x2zyvuxqcwnpupmst8m33rmlfsmrrtj5axlyykvlqgnms"
	regtestInvoice     = "lni1qqgxy08evcguecrs38c7z0s5ptj7xq3qqc3xu3s3rg94nj40zfsy866mhu5vxne6tcej5878k2mneuvgjy8s5qqkyypqlhwk58x2zyvuxqcwnpupmst8m33rmlfsmrrtj5axlyykvlqgnmjsyqrzymjxzydqkkw24ufxqslttwlj3s608f0rx2slc7etw0833zgs75syqh67zqzcyypyh6pttjn5axdynlppvpkvgdfwc76g8p58zvhqtf0jl2rc7hcayf9qnqpqlhwk58x2zyvuxqcwnpupmst8m33rmlfsmrrtj5axlyykvlqgnmsrsxwsc6gcgpj4j7w8d5ag9cgu50ewtywpt5ht8n45mpsxzfnu5kqszqnm77ygz0d5rrg004dh0w8cmlajs3npev2zmvuq96688kxe9ex07qqr9nrhgtm7626jel28j8rtwvtuyf3qnsdx5rar05tmp2sjj4aqkqcyn9gu240rgrmaareuhhfamjvvme9x0gsuqqqqqqqqqqqqqqq2qqqqqqqqqqqqq8fykt06c5sqqqqqpfqyvuvtxnagyzrw8es9ssvkykxftlhfx873fyezzad3reqqamr7yqj5gvtjfggfr2syqh67zq9syypqlhwk58x2zyvuxqcwnpupmst8m33rmlfsmrrtj5axlyykvlqgnmhsgqtlq2fc932jthm4x4ja9wytxd83lnxzhxa7wgkjfklycvc3da86j8sxhte0w6fxgkfhm5daf6lv0jm93jwzdj69r5h54x7hv0hgu6tg"

	// invoices for testOffer50, signed by its issuer unless noted otherwise
	testInvoice50     = "lni1qqgqqqgzqvzq2ps8pqys5zcvp58q7zqyqta0pqq2pdpx7mr50gsx7enxv4epyp2zdak8g7skyypyrkrz2e626u7ph47lxp5g0dw9y4aexnjf2weh364m9e7kk23q87zjqsp04uyqtqss9rcfy8u2kh2dvmu474244wp0ayqaazdjrk8wa23e75xuuuuyu40n5p4qyswcvft8fttncx7hmucx3pa4c5jhhy6wf9fmx782hvh866e2yqlcq28sjg0c4dw56eheta24t2uzl6gpm6ymy8vwa64rnagdeeecfe2lxqgzcs6t0kp4sh4wu749u265806cgkvfuqnm9mpsyle3x8mct82p4jksqpx74klwlgsuqqqq86qqqqqxgqysqqqqqqqqqqp7sqqqqqp9gzlyqqqqpfqyv4flzq9xqg8pp2pqzpmxzy60y878cq3z84g2h84nvq9u8l7rwyjz8g0y0wcln2wm74065pqzltcgpvppqfqascjkwjkh8sda0hesdzrmt3f90wf5uj2nkduw4wew044j5gpl3uzqdfm9xlp483dah7tv0p5dwl92f3t063qus4j67nzcxwuk9jk9s373mxk5ev0r2kyhvdrqlvnyz06fh4dhxzdrym500elxtfuenr7wrfq"
	testInvoice49     = "lni1qqgqqqgzqvzq2ps8pqys5zcvp58q7zqyqta0pqq2pdpx7mr50gsx7enxv4epyp2zdak8g7skyypyrkrz2e626u7ph47lxp5g0dw9y4aexnjf2weh364m9e7kk23q87zjqsp04myctqss9rcfy8u2kh2dvmu474244wp0ayqaazdjrk8wa23e75xuuuuyu40n5p4qyswcvft8fttncx7hmucx3pa4c5jhhy6wf9fmx782hvh866e2yqlcq28sjg0c4dw56eheta24t2uzl6gpm6ymy8vwa64rnagdeeecfe2lxqgzcs6t0kp4sh4wu749u265806cgkvfuqnm9mpsyle3x8mct82p4jksqpx74klwlgsuqqqq86qqqqqxgqysqqqqqqqqqqp7sqqqqqp9gzlyqqqqpfqyv4flzq9xqg8pp2pqzpmxzy60y878cq3z84g2h84nvq9u8l7rwyjz8g0y0wcln2wm74065pqzltkf3vppqfqascjkwjkh8sda0hesdzrmt3f90wf5uj2nkduw4wew044j5gpl3uzqe555f2hr8kxel662tmr0nmd2akyq36hq5aq44a5z37az8jat02xshnn23x8lzusr27vq3gjm2uyz5h4lscddnjmqz2l5s3msm32rfec"
	testInvoiceHopKey = "lni1qqgqqqgzqvzq2ps8pqys5zcvp58q7zqyqta0pqq2pdpx7mr50gsx7enxv4epyp2zdak8g7skyypyrkrz2e626u7ph47lxp5g0dw9y4aexnjf2weh364m9e7kk23q87zjqsp04uyqtqss9rcfy8u2kh2dvmu474244wp0ayqaazdjrk8wa23e75xuuuuyu40n5p4qyswcvft8fttncx7hmucx3pa4c5jhhy6wf9fmx782hvh866e2yqlcq28sjg0c4dw56eheta24t2uzl6gpm6ymy8vwa64rnagdeeecfe2lxqgzcs6t0kp4sh4wu749u265806cgkvfuqnm9mpsyle3x8mct82p4jksqpx74klwlgsuqqqq86qqqqqxgqysqqqqqqqqqqp7sqqqqqp9gzlyqqqqpfqyv4flzq9xqg8pp2pqzpmxzy60y878cq3z84g2h84nvq9u8l7rwyjz8g0y0wcln2wm74065pqzltcgpvppqtzrfd7cxkz74mn65h3t2saltpze38sz0vhvxqnlxycl0pvagxk2muzq5maq978pp72mud3t2z9ex0ddrx0p76zawd2vps3jfuvnspetuppeywt0p5x4y7k063adkv9974rzuapz7f0uqfqzdfzggenqfhmc6jq"

	issuerKeyHex  = "0241d8625674ad73c1bd7df306887b5c5257b934e4953b378eabb2e7d6b2a203f8"
	payerKeyHex   = "028f0921f8ab5d4d66f95f5555ab82fe901de89b21d8eeeaa39f50dce7384e55f3"
	hopKeyHex     = "02c434b7d83585eaee7aa5e2b543bf5845989e027b2ec3027f3131f7859d41acad"
	regtestNodeID = "020fddd6a1cca1119c3030e98781dc167dc623dfd30d8c6b953a6f909667c089ee"
)

// testKey derives a deterministic key from seed, the same way the fixtures
// above were generated.
func testKey(seed string) *btcec.PrivateKey {
	hash := sha256.Sum256([]byte(seed))
	key, _ := btcec.PrivKeyFromBytes(hash[:])
	return key
}

func record(t uint64, value []byte) RawField {
	return RawField{Type: t, Value: value}
}

func textRecord(t uint64, value string) RawField {
	return record(t, []byte(value))
}

func keyRecord(t uint64, key *btcec.PrivateKey) RawField {
	return record(t, key.PubKey().SerializeCompressed())
}

func encodeTest(t *testing.T, hrp string, fields ...RawField) string {
	encoded, err := Encode(hrp, fields)
	require.NoError(t, err)
	return encoded
}

func testPath(intro *btcec.PrivateKey, final *btcec.PrivateKey) BlindedPath {
	return BlindedPath{
		Introduction: IntroductionNode{NodeID: intro.PubKey()},
		PathKey:      testKey("path key").PubKey(),
		Hops: []BlindedHop{
			{BlindedNodeID: final.PubKey(), EncryptedData: []byte{0xde, 0xad, 0xbe, 0xef}},
		},
	}
}

func testPayInfo() []byte {
	var info []byte
	info = binary.BigEndian.AppendUint32(info, 1000)
	info = binary.BigEndian.AppendUint32(info, 100)
	info = binary.BigEndian.AppendUint16(info, 144)
	info = binary.BigEndian.AppendUint64(info, 1000)
	info = binary.BigEndian.AppendUint64(info, 10_000_000_000)
	return binary.BigEndian.AppendUint16(info, 0)
}

type invoiceBuilder struct {
	offer   []RawField
	amount  uint64
	signer  *btcec.PrivateKey
	extra   []RawField
	without map[uint64]bool
}

func newInvoiceBuilder(signer *btcec.PrivateKey, amount uint64, offer ...RawField) *invoiceBuilder {
	return &invoiceBuilder{offer: offer, amount: amount, signer: signer, without: map[uint64]bool{}}
}

func (b *invoiceBuilder) with(fields ...RawField) *invoiceBuilder {
	b.extra = append(b.extra, fields...)
	return b
}

func (b *invoiceBuilder) omit(types ...uint64) *invoiceBuilder {
	for _, t := range types {
		b.without[t] = true
	}
	return b
}

func (b *invoiceBuilder) records(t *testing.T) []RawField {
	hash := sha256.Sum256([]byte("preimage"))
	fields := []RawField{
		record(typeInvreqMetadata, []byte{1, 2, 3, 4}),
		keyRecord(typeInvreqPayerID, testKey("bolt12 payer")),
		record(typeInvoicePaths, writeBlindedPaths([]BlindedPath{testPath(b.signer, testKey("bolt12 hop"))})),
		record(typeInvoiceBlindedPay, testPayInfo()),
		record(typeInvoiceCreatedAt, writeTu64(1_700_000_000)),
		record(typeInvoicePaymentHash, hash[:]),
		record(typeInvoiceAmount, writeTu64(b.amount)),
		keyRecord(typeInvoiceNodeID, b.signer),
	}
	fields = append(fields, b.offer...)
	fields = append(fields, b.extra...)

	var kept []RawField
	for _, field := range fields {
		if !b.without[field.Type] {
			kept = append(kept, field)
		}
	}
	sortRecords(kept)

	if !b.without[typeSignature] {
		hash, err := SignatureHash("invoice", "signature", kept)
		require.NoError(t, err)
		signature, err := schnorr.Sign(b.signer, hash[:])
		require.NoError(t, err)
		kept = append(kept, record(typeSignature, signature.Serialize()))
	}
	return kept
}

func (b *invoiceBuilder) encode(t *testing.T) string {
	return encodeTest(t, InvoiceHRP, b.records(t)...)
}

func testOfferRecords(issuer *btcec.PrivateKey) []RawField {
	return []RawField{
		record(typeOfferAmount, writeTu64(50_000_000)),
		textRecord(typeOfferDescription, "Boltz offer"),
		textRecord(typeOfferIssuer, "Boltz"),
		keyRecord(typeOfferIssuerID, issuer),
	}
}
