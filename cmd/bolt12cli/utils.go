package main

import (
	"fmt"
	"time"

	"github.com/BoltzExchange/boltz-bolt12/internal/config"
	"github.com/BoltzExchange/boltz-bolt12/internal/utils"
	"github.com/BoltzExchange/boltz-bolt12/pkg/bolt12"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/hako/durafmt"
	"github.com/urfave/cli/v2"
)

func requireNArgs(n int, action cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if ctx.NArg() != n {
			return cli.ShowSubcommandHelp(ctx)
		}
		return action(ctx)
	}
}

func decodeOptions(ctx *cli.Context) []bolt12.DecodeOption {
	if ctx.Bool("checksum") {
		return []bolt12.DecodeOption{bolt12.WithChecksum()}
	}
	return nil
}

func getNetwork(ctx *cli.Context) (*chaincfg.Params, error) {
	return config.ParseNetwork(ctx.String("network"))
}

func printJson(resp any) error {
	formatted, err := utils.FormatJson(resp)
	if err != nil {
		return fmt.Errorf("could not encode response: %w", err)
	}
	fmt.Print(formatted)
	return nil
}

// printEncoded prints resp if --json or --cbor was set and reports whether it did
func printEncoded(ctx *cli.Context, resp any) bool {
	var formatted string
	var err error
	switch {
	case ctx.Bool("json"):
		formatted, err = utils.FormatJson(resp)
	case ctx.Bool("cbor"):
		formatted, err = utils.FormatCbor(resp)
		formatted += "\n"
	default:
		return false
	}
	if err != nil {
		fmt.Println("Could not encode response: " + err.Error())
		return true
	}
	fmt.Print(formatted)
	return true
}

func formatExpiry(expiry time.Time, now time.Time) string {
	if !now.Before(expiry) {
		return "expired " + durafmt.Parse(now.Sub(expiry)).LimitFirstN(2).String() + " ago"
	}
	return "in " + durafmt.Parse(expiry.Sub(now)).LimitFirstN(2).String()
}

func shorten(value string) string {
	if len(value) <= 16 {
		return value
	}
	return value[:8] + "..." + value[len(value)-8:]
}
