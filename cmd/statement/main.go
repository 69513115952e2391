// Command statement renders billing statements for a batch of invoices, the
// original batch mode of the billing engine: read the play catalog and the
// invoice file, print one statement per invoice to stdout.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/noah-isme/theater-billing/internal/catalog"
	"github.com/noah-isme/theater-billing/internal/config"
	"github.com/noah-isme/theater-billing/internal/invoice"
	"github.com/noah-isme/theater-billing/internal/obs"
	"github.com/noah-isme/theater-billing/internal/statement"
)

func main() {
	playsPath := flag.String("plays", "data/plays.json", "path to the play catalog JSON")
	invoicesPath := flag.String("invoices", "data/invoices.json", "path to the invoices JSON")
	flag.Parse()

	logger := obs.NewLogger("console", "info")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}

	plays, err := catalog.LoadFile(*playsPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *playsPath).Msg("load play catalog")
	}

	f, err := os.Open(*invoicesPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *invoicesPath).Msg("open invoices file")
	}
	invoices, err := invoice.ReadAll(f)
	_ = f.Close()
	if err != nil {
		logger.Fatal().Err(err).Msg("read invoices")
	}

	gen := statement.Generator{Catalog: plays, Tariff: cfg.Tariff}
	for _, inv := range invoices {
		if err := inv.Validate(); err != nil {
			logger.Fatal().Err(err).Str("customer", inv.Customer).Msg("invalid invoice")
		}
		text, err := gen.Render(inv)
		if err != nil {
			logger.Fatal().Err(err).Str("customer", inv.Customer).Msg("render statement")
		}
		fmt.Print(text)
	}
}
