// Package main is the entry point of the stock market data API.
//
// Usage:
//
//	go run ./cmd/server            # same as "serve"
//	go run ./cmd/server migrate
//	go run ./cmd/server import stock_market_data.json
//	go run ./cmd/server export backup.parquet
package main

import (
	"os"

	"github.com/ndewijer/stock-market-api/cmd/server/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
