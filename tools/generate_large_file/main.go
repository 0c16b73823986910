// Large Delimited File Generator
//
// This tool generates a large delimited file for performance testing and profiling.
// It mixes plain, quoted, multi-line, numeric and null values so the lexer's
// slow paths are exercised as well as its fast path.
//
// Usage:
//
//	go run main.go > large.csv
//	go run main.go 20000000 > large.csv          # Specify target size in bytes
//	go run main.go 20000000 mysql > large.tsv    # Specify the dialect preset
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/csvdialect/dialect"
	"github.com/robinvdvleuten/csvdialect/printer"
)

const (
	defaultTargetSize = 10 * 1024 * 1024 // 10MB
)

var (
	names = []string{
		"Alice Johnson",
		"Bob O'Neil",
		"Carol \"CJ\" Jones",
		"Dave, Jr.",
		"Élodie Martin",
		"Fumiko 山田",
	}

	cities = []string{
		"Amsterdam",
		"New York, NY",
		"São Paulo",
		"Zürich",
	}

	notes = []string{
		"",
		"first order",
		"called twice\nleft a voicemail",
		"  padded  ",
		"tab\tseparated",
		"back\\slash",
	}
)

// countingWriter tracks how many bytes were written to stdout.
type countingWriter struct {
	n int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	n, err := os.Stdout.Write(p)
	w.n += n
	return n, err
}

func main() {
	targetSize := defaultTargetSize
	if len(os.Args) > 1 {
		if size, err := strconv.Atoi(os.Args[1]); err == nil {
			targetSize = size
		}
	}

	f := dialect.Default
	if len(os.Args) > 2 {
		var ok bool
		if f, ok = dialect.Lookup(os.Args[2]); !ok {
			fmt.Fprintf(os.Stderr, "unknown dialect %q (known: %s)\n", os.Args[2], dialect.PresetList())
			os.Exit(2)
		}
	}
	if f.IsCommentMarkerSet() {
		f = f.MustWith(dialect.WithHeaderComments("Large delimited file for performance testing", "Generated: "+time.Now().Format("2006-01-02 15:04:05")))
	}
	f = f.MustWith(dialect.WithHeader("id", "name", "city", "amount", "ratio", "created", "note"))

	out := &countingWriter{}
	p, err := printer.New(out, f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	date := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	records := 0
	for out.n < targetSize {
		if err := p.PrintRecord(generateRecord(records+1, date)...); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		records++

		// Advance date by 0-2 days
		date = date.AddDate(0, 0, rand.Intn(3))
	}

	if err := p.Close(true); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d bytes with %d records\n", out.n, records)
}

func generateRecord(id int, date time.Time) []any {
	var note any = notes[rand.Intn(len(notes))]
	// 10% - null note
	if rand.Intn(10) == 0 {
		note = nil
	}

	return []any{
		id,
		names[rand.Intn(len(names))],
		cities[rand.Intn(len(cities))],
		randAmount(1, 5000),
		rand.Float64(),
		date.Format("2006-01-02"),
		note,
	}
}

func randAmount(lo, hi int) decimal.Decimal {
	cents := rand.Int63n(int64(hi-lo)*100) + int64(lo)*100
	return decimal.New(cents, -2)
}
