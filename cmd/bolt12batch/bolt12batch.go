package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BoltzExchange/boltz-bolt12/internal/batch"
	"github.com/BoltzExchange/boltz-bolt12/internal/config"
	"github.com/BoltzExchange/boltz-bolt12/internal/logger"
	"github.com/BoltzExchange/boltz-bolt12/internal/utils"
	"github.com/fatih/color"
	"github.com/rodaine/table"
)

func main() {
	defaultDataDir, err := utils.GetDefaultDataDir()
	if err != nil {
		fmt.Println("Could not get home directory: " + err.Error())
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(defaultDataDir, os.Args[1:])
	if err != nil {
		fmt.Println("Could not load config: " + err.Error())
		os.Exit(1)
	}

	logger.Init(cfg.Log)

	network, err := cfg.ChainParams()
	if err != nil {
		logger.Fatal(err.Error())
	}

	checker, err := batch.NewChecker(batch.Options{
		Workers:   cfg.Workers,
		CacheSize: cfg.OfferCacheSize,
		Network:   network,
		Checksum:  cfg.Checksum,
	})
	if err != nil {
		logger.Fatal(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var results []batch.Result
	if cfg.Input == "" {
		logger.Infof("Checking pairs from stdin on %s with %d workers", network.Name, cfg.Workers)
		results, err = checker.CheckStream(ctx, os.Stdin, printResult)
	} else {
		results, err = checkFile(ctx, checker, cfg.Input)
		if err == nil {
			logger.Infof("Checked %d pairs from %s on %s", len(results), cfg.Input, network.Name)
		}
	}
	if err != nil {
		logger.Fatal("Could not check pairs: " + err.Error())
	}

	if cfg.Store {
		if err := cfg.Database.Connect(); err != nil {
			logger.Fatal("Could not connect to database: " + err.Error())
		}
		if err := batch.Store(cfg.Database, results); err != nil {
			logger.Fatal("Could not store results: " + err.Error())
		}
		if err := cfg.Database.Close(); err != nil {
			logger.Warn("Could not close database: " + err.Error())
		}
		logger.Infof("Stored %d results in %s", len(results), cfg.Database.Path)
	}

	if err := batch.Failures(results); err != nil {
		logger.Warn(err.Error())
	}

	summary := printSummary(results)
	if summary.Failed > 0 {
		os.Exit(2)
	}
}

func checkFile(ctx context.Context, checker *batch.Checker, input string) ([]batch.Result, error) {
	file, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	pairs, err := batch.ReadPairs(file)
	if err != nil {
		return nil, err
	}
	return checker.CheckAll(ctx, pairs)
}

func printResult(result batch.Result) {
	if result.Matches() {
		_, _ = color.New(color.FgGreen).Printf("line %d: invoice is for offer %s\n", result.Pair.Line, result.OfferID)
		return
	}
	_, _ = color.New(color.FgRed).Printf("line %d: %v\n", result.Pair.Line, result.Err)
}

func printSummary(results []batch.Result) batch.Summary {
	summary := batch.Summarize(results)

	if summary.Failed > 0 {
		headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
		columnFmt := color.New(color.FgYellow).SprintfFunc()
		tbl := table.New("Line", "Offer", "Error")
		tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)

		for _, result := range results {
			if !result.Matches() {
				tbl.AddRow(result.Pair.Line, result.OfferID, result.Err)
			}
		}
		tbl.Print()
		fmt.Println()
	}

	status := color.New(color.FgGreen, color.Bold)
	if summary.Failed > 0 {
		status = color.New(color.FgRed, color.Bold)
	}
	_, _ = status.Printf("%d of %d invoices are for their offer\n", summary.Matched, summary.Total)
	return summary
}
