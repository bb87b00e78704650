// cmd/tools/datagen/main.go
// Generates a synthetic labeled training dataset with the same value
// distributions the production tables show, for local training runs.
package main

import (
	"flag"
	"fmt"
	"os"

	"trustmarket-leadscore/internal/datagen"
)

func main() {
	n := flag.Int("n", 1000, "number of rows to generate")
	seed := flag.Int64("seed", 42, "random seed")
	out := flag.String("out", "training_data.csv", "output CSV path")
	flag.Parse()

	if *n <= 0 {
		fmt.Fprintln(os.Stderr, "row count must be positive")
		os.Exit(1)
	}

	if err := datagen.WriteCSVFile(*out, *n, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "datagen failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d rows to %s\n", *n, *out)
}
