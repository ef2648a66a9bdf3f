package main

import (
	"fmt"
	"os"

	"github.com/BoltzExchange/boltz-bolt12/internal/build"
	"github.com/BoltzExchange/boltz-bolt12/internal/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "bolt12cli"
	app.Usage = "Decode and verify BOLT12 offers and invoices"
	app.Version = build.GetVersion()
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "loglevel",
			Value: "warn",
			Usage: "Level of the log messages printed to stderr",
		},
		&cli.StringFlag{
			Name:  "network",
			Value: "mainnet",
			Usage: "Network invoices are expected on: mainnet, testnet, regtest or signet",
		},
		&cli.BoolFlag{
			Name:  "checksum",
			Usage: "Expect strings to carry a bech32m checksum",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		logger.Init(logger.Options{Level: ctx.String("loglevel"), Logger: os.Stderr})
		return nil
	}
	app.Commands = []*cli.Command{
		decodeOfferCommand,
		decodeInvoiceCommand,
		checkInvoiceCommand,
		decodeCommand,
		listChecksCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
