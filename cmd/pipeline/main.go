// Command pipeline runs the offline feature-engineering path: raw listings
// CSV in, model-ready feature table out. Model fitting itself happens
// elsewhere; this produces the table it trains on.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/madridpricer/backend/internal/infrastructure/dataset"
	"github.com/madridpricer/backend/internal/usecase"
)

func main() {
	input := flag.String("input", "data/listings.csv", "raw listings CSV")
	output := flag.String("output", "data/model_ready.csv", "model-ready output CSV")
	refDate := flag.String("reference-date", "", "RFC3339 reference date for days_since features (default: now UTC); pass the original run timestamp to reproduce a historical table")
	flag.Parse()

	reference := time.Now().UTC()
	if *refDate != "" {
		parsed, err := time.Parse(time.RFC3339, *refDate)
		if err != nil {
			log.Fatalf("Invalid -reference-date %q: %v", *refDate, err)
		}
		reference = parsed
	}

	frame, err := dataset.ReadCSVFile(*input)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *input, err)
	}
	log.Printf("Read %d rows, %d columns from %s", frame.NumRows(), len(frame.Columns()), *input)

	usecase.CleanListings(frame)
	log.Printf("Cleaned: %d rows, %d columns", frame.NumRows(), len(frame.Columns()))

	usecase.PrepareForModeling(frame, reference)
	log.Printf("Prepared: %d rows, %d features (reference date %s)",
		frame.NumRows(), len(frame.Columns()), reference.Format(time.RFC3339))

	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *output, err)
	}
	defer out.Close()

	if err := dataset.WriteCSV(out, frame); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	log.Printf("Wrote model-ready table to %s", *output)
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime)
}
