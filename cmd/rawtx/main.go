package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Layr-Labs/eigenx-rawtx-go/pkg/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "rawtx",
		Usage: "Legacy transaction signer for a liquidity sniping bot",
		Description: `Builds, signs and pregenerates raw legacy Ethereum transactions.

This tool can:
- Sign a transaction template and print its raw RLP encoding
- Build swapExactETHForTokens call data
- Pregenerate relay messages for every gas price on a grid
- Answer a relay notification with the matching pregenerated message`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file",
				EnvVars: []string{config.EnvRawtxConfig},
			},
			&cli.StringFlag{
				Name:    "private-key",
				Aliases: []string{"key"},
				Usage:   "Private key of the sending wallet (hex string)",
				EnvVars: []string{config.EnvRawtxPrivateKey},
			},
			&cli.StringFlag{
				Name:    "chain-id",
				Aliases: []string{"chain"},
				Usage:   fmt.Sprintf("Chain name or id: %s", config.GetSupportedChainIDsString()),
				EnvVars: []string{config.EnvRawtxChainID},
			},
			&cli.StringFlag{
				Name:    "signing-backend",
				Usage:   "secp256k1 implementation: geth or decred",
				EnvVars: []string{config.EnvRawtxBackend},
			},
			&cli.StringFlag{
				Name:    "persistence",
				Usage:   "Pregenerated message store: memory, badger or redis",
				EnvVars: []string{config.EnvRawtxPersistence},
			},
			&cli.StringFlag{
				Name:    "badger-path",
				Usage:   "Badger data directory",
				EnvVars: []string{config.EnvRawtxBadgerPath},
			},
			&cli.StringFlag{
				Name:    "redis-address",
				Usage:   "Redis server address (host:port)",
				EnvVars: []string{config.EnvRawtxRedisAddr},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvRawtxDebug},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "sign",
				Usage: "Sign the configured transaction at one gas price",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "gas-price",
						Usage: "Gas price in wei (decimal)",
						Value: "0",
					},
					&cli.StringFlag{
						Name:  "nonce",
						Usage: "Override the nonce (hex)",
					},
					&cli.StringFlag{
						Name:  "data",
						Usage: "Override the call data (hex)",
					},
					&cli.BoolFlag{
						Name:  "message",
						Usage: "Print the relay message instead of the raw transaction",
					},
				},
				Action: signCommand,
			},
			{
				Name:   "calldata",
				Usage:  "Print the swapExactETHForTokens call data",
				Action: calldataCommand,
			},
			{
				Name:   "subscribe",
				Usage:  "Print the relay subscription message",
				Action: subscribeCommand,
			},
			{
				Name:  "pregen",
				Usage: "Pregenerate relay messages over the configured gas price range",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "next-private-key",
						Usage: "Activate this key before pregenerating, replacing entries signed by the current one",
					},
				},
				Action: pregenCommand,
			},
			{
				Name:  "lookup",
				Usage: "Print the pregenerated relay message for a gas price",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "gas-price",
						Usage:    "Gas price in wei (decimal)",
						Required: true,
					},
				},
				Action: lookupCommand,
			},
			{
				Name:  "respond",
				Usage: "Print the relay message answering a newTxs notification",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "notification",
						Usage: "Notification JSON file, - for stdin",
						Value: "-",
					},
				},
				Action: respondCommand,
			},
		},
	}
}
