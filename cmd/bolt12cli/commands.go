package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/BoltzExchange/boltz-bolt12/internal/database"
	"github.com/BoltzExchange/boltz-bolt12/internal/lightning"
	"github.com/BoltzExchange/boltz-bolt12/internal/utils"
	"github.com/BoltzExchange/boltz-bolt12/pkg/bolt12"
	"github.com/fatih/color"
	"github.com/rodaine/table"
	"github.com/urfave/cli/v2"
)

var yellowBold = color.New(color.FgHiYellow, color.Bold)

var jsonFlag = &cli.BoolFlag{
	Name:  "json",
	Usage: "Prints the output as JSON",
}

var cborFlag = &cli.BoolFlag{
	Name:  "cbor",
	Usage: "Prints the output as hex encoded CBOR",
}

var decodeOfferCommand = &cli.Command{
	Name:      "decodeoffer",
	Category:  "Decode",
	Usage:     "Decodes a BOLT12 offer",
	ArgsUsage: "offer",
	Action:    requireNArgs(1, decodeOffer),
	Flags:     []cli.Flag{jsonFlag, cborFlag},
}

func decodeOffer(ctx *cli.Context) error {
	offer, err := bolt12.DecodeOffer(ctx.Args().First(), decodeOptions(ctx)...)
	if err != nil {
		return err
	}
	view, err := newOfferView(offer)
	if err != nil {
		return err
	}

	if printEncoded(ctx, view) {
		return nil
	}
	printOffer(view)
	return nil
}

var decodeInvoiceCommand = &cli.Command{
	Name:      "decodeinvoice",
	Category:  "Decode",
	Usage:     "Decodes a BOLT12 invoice and verifies its signature",
	ArgsUsage: "invoice",
	Action:    requireNArgs(1, decodeInvoice),
	Flags:     []cli.Flag{jsonFlag, cborFlag},
}

func decodeInvoice(ctx *cli.Context) error {
	network, err := getNetwork(ctx)
	if err != nil {
		return err
	}
	invoice, err := bolt12.DecodeInvoice(ctx.Args().First(), decodeOptions(ctx)...)
	if err != nil {
		return err
	}
	view, err := newInvoiceView(invoice, network)
	if err != nil {
		return err
	}

	if printEncoded(ctx, view) {
		return nil
	}
	printInvoice(view, time.Now())
	if view.Offer != nil {
		fmt.Println()
		printOffer(*view.Offer)
	}
	return nil
}

var checkInvoiceCommand = &cli.Command{
	Name:      "checkinvoice",
	Category:  "Verify",
	Usage:     "Checks whether an invoice was issued for an offer",
	ArgsUsage: "invoice offer",
	Action:    requireNArgs(2, checkInvoice),
	Flags:     []cli.Flag{jsonFlag},
}

type checkView struct {
	Matches bool   `json:"matches"`
	Reason  string `json:"reason,omitempty"`
}

func checkInvoice(ctx *cli.Context) error {
	options := decodeOptions(ctx)
	invoice, err := bolt12.DecodeInvoice(ctx.Args().Get(0), options...)
	if err != nil {
		return fmt.Errorf("could not decode invoice: %w", err)
	}
	offer, err := bolt12.DecodeOffer(ctx.Args().Get(1), options...)
	if err != nil {
		return fmt.Errorf("could not decode offer: %w", err)
	}

	view := checkView{Matches: true}
	if err := bolt12.VerifyInvoiceForOffer(invoice, offer); err != nil {
		view = checkView{Matches: false, Reason: err.Error()}
	}

	if ctx.Bool("json") {
		return printJson(view)
	}
	if view.Matches {
		_, err = color.New(color.FgGreen, color.Bold).Println("Invoice is for offer")
	} else {
		_, err = color.New(color.FgRed, color.Bold).Println("Invoice is not for offer: " + view.Reason)
	}
	return err
}

var decodeCommand = &cli.Command{
	Name:      "decode",
	Category:  "Decode",
	Usage:     "Decodes a BOLT11 or BOLT12 invoice and calculates the routing fee limit",
	ArgsUsage: "invoice",
	Action:    requireNArgs(1, decode),
	Flags: []cli.Flag{
		jsonFlag,
		&cli.Uint64Flag{
			Name:  "feeppm",
			Value: 1000,
			Usage: "Routing fee limit in parts per million",
		},
	},
}

type decodedView struct {
	Type              string  `json:"type"`
	AmountSat         uint64  `json:"amountSat"`
	PaymentHash       string  `json:"paymentHash"`
	ExpiryDate        int64   `json:"expiryDate"`
	Destination       string  `json:"destination,omitempty"`
	FeeLimitSat       uint    `json:"feeLimitSat"`
	MatchesOffer      *bool   `json:"matchesOffer,omitempty"`
	OfferMinAmountSat *uint64 `json:"offerMinAmountSat,omitempty"`
}

func decode(ctx *cli.Context) error {
	network, err := getNetwork(ctx)
	if err != nil {
		return err
	}
	text := ctx.Args().First()
	invoice, err := lightning.DecodeInvoice(text, network)
	if err != nil {
		return err
	}
	view := decodedView{
		Type:        "bolt11",
		AmountSat:   invoice.AmountSat,
		PaymentHash: fmt.Sprintf("%x", invoice.PaymentHash),
		ExpiryDate:  invoice.Expiry.Unix(),
		Destination: formatKey(invoice.Destination),
		FeeLimitSat: invoice.FeeLimit(ctx.Uint64("feeppm")),
	}
	if invoice.IsBolt12() {
		view.Type = "bolt12"
		if invoice.Bolt12.Offer != nil {
			offerText, err := invoice.Bolt12.Offer.Encode()
			if err != nil {
				return err
			}
			offer, err := lightning.DecodeOffer(offerText)
			if err != nil {
				return err
			}
			matches := lightning.CheckInvoiceIsForOffer(text, offerText)
			view.MatchesOffer = &matches
			view.OfferMinAmountSat = &offer.MinAmount
		}
	}

	if ctx.Bool("json") {
		return printJson(view)
	}

	tbl := newTable("Field", "Value")
	tbl.AddRow("Type", view.Type)
	tbl.AddRow("Amount", utils.Satoshis(view.AmountSat))
	tbl.AddRow("Payment Hash", view.PaymentHash)
	tbl.AddRow("Expiry", formatExpiry(invoice.Expiry, time.Now()))
	tbl.AddRow("Destination", view.Destination)
	tbl.AddRow("Fee Limit", utils.Satoshis(view.FeeLimitSat))
	if view.MatchesOffer != nil {
		tbl.AddRow("Offer Minimum", utils.Satoshis(*view.OfferMinAmountSat))
		tbl.AddRow("Matches Offer", *view.MatchesOffer)
	}
	tbl.Print()
	return nil
}

var listChecksCommand = &cli.Command{
	Name:     "listchecks",
	Category: "Verify",
	Usage:    "Lists checks recorded by bolt12batch",
	Action:   listChecks,
	Flags: []cli.Flag{
		jsonFlag,
		&cli.StringFlag{
			Name:     "database",
			Usage:    "Path to the database of bolt12batch",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "offer",
			Usage: "Only list checks against the offer with this id",
		},
		&cli.BoolFlag{
			Name:  "failed",
			Usage: "Only list checks that did not match",
		},
		&cli.Uint64Flag{
			Name:  "limit",
			Value: 50,
			Usage: "Maximum number of checks to list",
		},
	},
}

func listChecks(ctx *cli.Context) error {
	path := utils.ExpandHomeDir(ctx.String("database"))
	if !utils.FileExists(path) {
		return errors.New("database does not exist: " + path)
	}
	db := &database.Database{Path: path}
	if err := db.Connect(); err != nil {
		return err
	}
	defer db.Close()

	limit := ctx.Uint64("limit")
	query := database.CheckQuery{Limit: &limit}
	if ctx.IsSet("offer") {
		offerId := ctx.String("offer")
		query.OfferId = &offerId
	}
	if ctx.Bool("failed") {
		matches := false
		query.Matches = &matches
	}

	checks, err := db.QueryChecks(query)
	if err != nil {
		return err
	}
	stats, err := db.QueryCheckStats(query)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJson(map[string]any{"checks": checks, "stats": stats})
	}

	tbl := newTable("ID", "Offer", "Payment Hash", "Amount", "Matches", "Error", "Checked At")
	for _, check := range checks {
		tbl.AddRow(check.Id, shorten(check.OfferId), shorten(check.PaymentHash), check.AmountSat, check.Matches, check.Error, check.CheckedAt.Format(time.DateTime))
	}
	if _, err := yellowBold.Println("Checks"); err != nil {
		return err
	}
	tbl.Print()
	fmt.Printf("\n%d of %d checks matched\n", stats.Matched, stats.Total)
	return nil
}

func newTable(columns ...any) table.Table {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()
	return table.New(columns...).WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)
}

func printOffer(view offerView) {
	_, _ = yellowBold.Println("Offer " + view.Id)

	tbl := newTable("Field", "Value")
	tbl.AddRow("Chains", view.Chains)
	if view.AmountMsat != nil {
		amount := utils.FormatMilliSat(int64(*view.AmountMsat))
		if view.Currency != "" {
			amount += " " + view.Currency
		} else {
			amount += " sat"
		}
		tbl.AddRow("Amount", amount)
	}
	tbl.AddRow("Minimum Amount", utils.Satoshis(view.MinAmountSat))
	addOptional(tbl, "Description", view.Description)
	addOptional(tbl, "Issuer", view.Issuer)
	if view.IssuerId != "" {
		tbl.AddRow("Issuer ID", view.IssuerId)
	}
	if view.QuantityMax != nil {
		tbl.AddRow("Maximum Quantity", *view.QuantityMax)
	}
	if view.AbsoluteExpiry != nil {
		tbl.AddRow("Expiry", formatExpiry(time.Unix(*view.AbsoluteExpiry, 0), time.Now()))
	}
	tbl.AddRow("Paths", view.Paths)
	for _, signer := range view.Signers {
		tbl.AddRow("Signer", signer)
	}
	tbl.Print()
}

func printInvoice(view invoiceView, now time.Time) {
	_, _ = yellowBold.Println("Invoice " + view.PaymentHash)

	tbl := newTable("Field", "Value")
	tbl.AddRow("Chain", view.Chain)
	tbl.AddRow("Amount", utils.Satoshis(view.AmountSat))
	if view.Quantity != nil {
		tbl.AddRow("Quantity", *view.Quantity)
	}
	tbl.AddRow("Created At", time.Unix(view.CreatedAt, 0).Format(time.DateTime))
	tbl.AddRow("Expiry", formatExpiry(time.Unix(view.ExpiryDate, 0), now))
	tbl.AddRow("Node ID", view.NodeId)
	tbl.AddRow("Payer Key", view.PayerKey)
	addOptional(tbl, "Payer Note", view.PayerNote)
	if view.Bip353Name != "" {
		tbl.AddRow("BIP 353 Name", view.Bip353Name)
	}
	tbl.AddRow("Paths", view.Paths)
	for _, fallback := range view.Fallbacks {
		tbl.AddRow("Fallback", fallback)
	}
	tbl.Print()
}

func addOptional(tbl table.Table, name string, value *string) {
	if value != nil {
		tbl.AddRow(name, *value)
	}
}
