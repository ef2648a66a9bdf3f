package lightning

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bolt12Offer       = "lno1qgsqvgnwgcg35z6ee2h3yczraddm72xrfua9uve2rlrm9deu7xyfzrc2qqtzzqs0mht2rn9pzxwrqv8fs7qac9nacc3al5cd334e2wn0jztx0syfac"
	bolt12AmountOffer = "lno1qgsqvgnwgcg35z6ee2h3yczraddm72xrfua9uve2rlrm9deu7xyfzrcgqgn3qzsyw3jhxaqkyypqlhwk58x2zyvuxqcwnpupmst8m33rmlfsmrrtj5axlyykvlqgnms"
	bolt12Invoice     = "lni1qqgxy08evcguecrs38c7z0s5ptj7xq3qqc3xu3s3rg94nj40zfsy866mhu5vxne6tcej5878k2mneuvgjy8s5qqkyypqlhwk58x2zyvuxqcwnpupmst8m33rmlfsmrrtj5axlyykvlqgnmjsyqrzymjxzydqkkw24ufxqslttwlj3s608f0rx2slc7etw0833zgs75syqh67zqzcyypyh6pttjn5axdynlppvpkvgdfwc76g8p58zvhqtf0jl2rc7hcayf9qnqpqlhwk58x2zyvuxqcwnpupmst8m33rmlfsmrrtj5axlyykvlqgnmsrsxwsc6gcgpj4j7w8d5ag9cgu50ewtywpt5ht8n45mpsxzfnu5kqszqnm77ygz0d5rrg004dh0w8cmlajs3npev2zmvuq96688kxe9ex07qqr9nrhgtm7626jel28j8rtwvtuyf3qnsdx5rar05tmp2sjj4aqkqcyn9gu240rgrmaareuhhfamjvvme9x0gsuqqqqqqqqqqqqqqq2qqqqqqqqqqqqq8fykt06c5sqqqqqpfqyvuvtxnagyzrw8es9ssvkykxftlhfx873fyezzad3reqqamr7yqj5gvtjfggfr2syqh67zq9syypqlhwk58x2zyvuxqcwnpupmst8m33rmlfsmrrtj5axlyykvlqgnmhsgqtlq2fc932jthm4x4ja9wytxd83lnxzhxa7wgkjfklycvc3da86j8sxhte0w6fxgkfhm5daf6lv0jm93jwzdj69r5h54x7hv0hgu6tg"
)

func TestParseOffer(t *testing.T) {
	tests := []struct {
		name    string
		offer   string
		want    *Offer
		wantErr bool
	}{
		{
			"Invalid",
			"lnoalsödkfjasödf",
			nil,
			true,
		},
		{
			"Valid",
			"lno1pqpzwyq2p32x2um5ypmx2cm5dae8x93pqthvwfzadd7jejes8q9lhc4rvjxd022zv5l44g6qah82ru5rdpnpj",
			&Offer{
				MinAmount: 10,
			},
			false,
		},
		{
			"NoAmount",
			bolt12Offer,
			&Offer{
				MinAmount: 0,
			},
			false,
		},
		{
			"Invoice",
			bolt12Invoice,
			nil,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeOffer(tt.offer)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeOffer() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCheckInvoiceIsForOffer(t *testing.T) {
	type args struct {
		invoice string
		offer   string
	}
	tests := []struct {
		name string
		args args
		want bool
	}{
		{
			"Valid",
			args{
				invoice: bolt12Invoice,
				offer:   bolt12Offer,
			},
			true,
		},
		{
			"OtherOfferSameIssuer",
			args{
				invoice: bolt12Invoice,
				offer:   bolt12AmountOffer,
			},
			false,
		},
		{
			"OtherIssuer",
			args{
				invoice: bolt12Invoice,
				offer:   "lno1pqpzwyq2p32x2um5ypmx2cm5dae8x93pqthvwfzadd7jejes8q9lhc4rvjxd022zv5l44g6qah82ru5rdpnpj",
			},
			false,
		},
		{
			"Invalid",
			args{
				invoice: "",
				offer:   bolt12Offer,
			},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equalf(t, tt.want, CheckInvoiceIsForOffer(tt.args.invoice, tt.args.offer), "CheckInvoiceIsForOffer(%v, %v)", tt.args.invoice, tt.args.offer)
		})
	}
}

func TestDecodeInvoice(t *testing.T) {
	t.Run("Bolt12", func(t *testing.T) {
		invoice, err := DecodeInvoice(bolt12Invoice, &chaincfg.RegressionNetParams)
		require.NoError(t, err)

		require.True(t, invoice.IsBolt12())
		require.Equal(t, uint64(100_000), invoice.AmountSat)
		require.Equal(t, "86e3e60584196258c95fee931fd149322175b11e400eec7e20254431724a1091", hex.EncodeToString(invoice.PaymentHash[:]))
		require.Equal(t, time.Unix(0x6718b34f+7200, 0), invoice.Expiry)
		require.Equal(t, "020fddd6a1cca1119c3030e98781dc167dc623dfd30d8c6b953a6f909667c089ee", hex.EncodeToString(invoice.Destination.SerializeCompressed()))
	})

	t.Run("Bolt12WrongNetwork", func(t *testing.T) {
		_, err := DecodeInvoice(bolt12Invoice, &chaincfg.MainNetParams)
		require.ErrorIs(t, err, ErrWrongNetwork)
	})

	t.Run("Bolt11", func(t *testing.T) {
		bolt11 := "lnbcrt10n1p07xy0spp585tu2049ghzs6se80zryvskkrtp94cec87qf90xp068unsy0j0tsdqqcqzpgsp5k4dx8025w6wtkpz4tm2py675n5e0ajlhgchw6edgs8lpf9m435ks9qy9qsquycyql7ucqmdgzk75uctw87jq6cpszexadp9clekk7cna27vjz7nx4pwy86nvw28eppkwlk8kavcy2rx02kl23g6yemfqff80den62cphujfge"
		invoice, err := DecodeInvoice(bolt11, &chaincfg.RegressionNetParams)
		require.NoError(t, err)

		require.False(t, invoice.IsBolt12())
		require.Equal(t, uint64(1), invoice.AmountSat)
		require.NotNil(t, invoice.Destination)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := DecodeInvoice("lnbcrt1invalid", &chaincfg.RegressionNetParams)
		require.Error(t, err)
	})

	t.Run("NoNetwork", func(t *testing.T) {
		bolt11 := "lnbcrt10n1p07xy0spp585tu2049ghzs6se80zryvskkrtp94cec87qf90xp068unsy0j0tsdqqcqzpgsp5k4dx8025w6wtkpz4tm2py675n5e0ajlhgchw6edgs8lpf9m435ks9qy9qsquycyql7ucqmdgzk75uctw87jq6cpszexadp9clekk7cna27vjz7nx4pwy86nvw28eppkwlk8kavcy2rx02kl23g6yemfqff80den62cphujfge"
		for _, invoice := range []string{bolt11, bolt12Invoice} {
			_, err := DecodeInvoice(invoice, nil)
			require.ErrorIs(t, err, ErrNoNetwork)
		}
	})
}
