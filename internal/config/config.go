package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/BoltzExchange/boltz-bolt12/internal/build"
	"github.com/BoltzExchange/boltz-bolt12/internal/database"
	"github.com/BoltzExchange/boltz-bolt12/internal/logger"
	"github.com/BoltzExchange/boltz-bolt12/internal/utils"
	"github.com/btcsuite/btcd/chaincfg"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/BurntSushi/toml"
	"github.com/jessevdk/go-flags"
)

type helpOptions struct {
	ShowHelp    bool `short:"h" long:"help" description:"Display this help message"`
	ShowVersion bool `short:"v" long:"version" description:"Display version and exit"`
}

type Config struct {
	DataDir string `short:"d" long:"datadir" description:"Data directory of bolt12batch"`

	ConfigFile string `short:"c" long:"configfile" description:"Path to configuration file"`

	LogFile    string `short:"l" long:"logfile" description:"Path to the log file"`
	LogLevel   string `long:"loglevel" description:"Log level (fatal, error, warn, info, debug, silly)"`
	LogMaxSize int    `long:"logmaxsize" description:"Maximum size of the log file in megabytes before it gets rotated"`
	LogMaxAge  int    `long:"logmaxage" description:"Maximum age of old log files in days before they get deleted"`

	Log logger.Options

	Network string `long:"network" description:"Network the offers have to support (mainnet, testnet, regtest, signet)"`

	Input    string `short:"i" long:"input" description:"File with one \"invoice offer\" pair per line; reads stdin if empty"`
	Checksum bool   `long:"checksum" description:"Require bech32m checksums on all strings"`

	Workers        int `short:"w" long:"workers" description:"Number of pairs that are checked in parallel"`
	OfferCacheSize int `long:"offercache" description:"Number of decoded offers to keep in memory"`

	Store    bool               `long:"store" description:"Record the results in the database"`
	Database *database.Database `group:"Database options"`

	Help *helpOptions `group:"Help Options"`
}

var ErrUnknownNetwork = errors.New("unknown network")

func ParseNetwork(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(network) {
	case "", "mainnet", "bitcoin":
		return &chaincfg.MainNetParams, nil
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params, nil
	case "regtest":
		return &chaincfg.RegressionNetParams, nil
	case "signet":
		return &chaincfg.SigNetParams, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
}

func (c *Config) ChainParams() (*chaincfg.Params, error) {
	return ParseNetwork(c.Network)
}

func LoadConfig(dataDir string, args []string) (*Config, error) {
	cfg := Config{
		DataDir: dataDir,

		ConfigFile: "",

		LogLevel:   "info",
		LogMaxSize: 5,
		LogMaxAge:  30,

		Network: "mainnet",

		Workers:        runtime.NumCPU(),
		OfferCacheSize: 1024,

		Database: &database.Database{
			Path: "",
		},
	}

	parser := flags.NewParser(&cfg, flags.IgnoreUnknown)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, fmt.Errorf("could not parse arguments: %w", err)
	}

	if cfg.Help.ShowVersion {
		fmt.Println(build.Describe("bolt12batch"))
		os.Exit(0)
	}

	if cfg.Help.ShowHelp {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	cfg.DataDir = utils.ExpandHomeDir(cfg.DataDir)
	cfg.ConfigFile = utils.ExpandDefaultPath(cfg.DataDir, cfg.ConfigFile, "bolt12.toml")

	if cfg.ConfigFile != "" && utils.FileExists(cfg.ConfigFile) {
		_, err := toml.DecodeFile(cfg.ConfigFile, &cfg)

		if err != nil {
			return nil, fmt.Errorf("could not read config file: %v", err)
		}
	}

	// parse a second time to ensure cli flags go over config values
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, fmt.Errorf("could not parse arguments: %w", err)
	}

	if _, err := cfg.ChainParams(); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.OfferCacheSize < 1 {
		return nil, fmt.Errorf("offer cache size must be at least 1, got %d", cfg.OfferCacheSize)
	}

	cfg.Input = utils.ExpandHomeDir(cfg.Input)
	cfg.LogFile = utils.ExpandDefaultPath(cfg.DataDir, utils.ExpandHomeDir(cfg.LogFile), "bolt12.log")
	cfg.Log = logger.Options{
		Level: cfg.LogLevel,
		Logger: &lumberjack.Logger{
			Filename: cfg.LogFile,
			MaxAge:   cfg.LogMaxAge,
			MaxSize:  cfg.LogMaxSize,
		},
	}
	cfg.Database.Path = utils.ExpandDefaultPath(cfg.DataDir, utils.ExpandHomeDir(cfg.Database.Path), "bolt12.db")

	if err := createDirIfNotExists(cfg.DataDir); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func createDirIfNotExists(dir string) error {
	if !utils.FileExists(dir) {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("could not create directory: %w", err)
		}
	}
	return nil
}
