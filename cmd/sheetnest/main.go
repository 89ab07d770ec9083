// Command sheetnest nests identical rectangular pieces on stock sheets and prices
// the job, including volume discounts and a partial last sheet.
//
// Build:
//   go build -o sheetnest ./cmd/sheetnest
//
// Examples:
//   sheetnest quote 12 12 50
//   sheetnest quote 24 18 4 --material "Acrylic 1/8" --pdf quote.pdf
//   sheetnest batch orders.csv -o quotes.xlsx
//   sheetnest breaks 10 14 --material "Coroplast 4mm"
package main

import (
	"os"

	"github.com/piwi3910/SheetNest/cmd/sheetnest/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
