// Command magtable generates a magnetic field table CSV by querying the
// geomagnetic model web service over the cartesian product of the given
// latitudes, longitudes, altitudes and dates. The output can be fed back to
// the builder as a file-mode field source.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atmoslab/atmogeom/internal/magfield"
)

var (
	latitudes  = flag.String("lat", "42.224", "Comma-separated latitudes in degrees")
	longitudes = flag.String("lon", "-8.716", "Comma-separated longitudes in degrees")
	altitudes  = flag.String("alt", "0", "Comma-separated altitudes in km")
	dates      = flag.String("dates", "2021-01-01", "Comma-separated dates (YYYY-MM-DD)")
	output     = flag.String("o", "magfield.csv", "Output CSV path")
	baseURL    = flag.String("base-url", "", "Model service base URL (default: BGS IGRF)")
)

func main() {
	flag.Parse()

	lats, err := parseFloats(*latitudes)
	if err != nil {
		log.Fatalf("invalid -lat: %v", err)
	}
	lons, err := parseFloats(*longitudes)
	if err != nil {
		log.Fatalf("invalid -lon: %v", err)
	}
	alts, err := parseFloats(*altitudes)
	if err != nil {
		log.Fatalf("invalid -alt: %v", err)
	}
	days, err := parseDates(*dates)
	if err != nil {
		log.Fatalf("invalid -dates: %v", err)
	}

	client := magfield.NewClient(nil, *baseURL)

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create output file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y", "z", "altitude", "latitude", "longitude", "date"}); err != nil {
		log.Fatalf("failed to write header: %v", err)
	}

	rows := 0
	for _, lat := range lats {
		for _, lon := range lons {
			for _, alt := range alts {
				for _, day := range days {
					north, east, down, err := client.Query(lat, lon, alt, day)
					if err != nil {
						log.Fatalf("query lat=%g lon=%g alt=%g date=%s: %v",
							lat, lon, alt, day.Format("2006-01-02"), err)
					}
					// Components stay in nanotesla: the table loader
					// normalises on read. z keeps the builder's
					// positive-up convention.
					rec := []string{
						formatFloat(north),
						formatFloat(east),
						formatFloat(-down),
						formatFloat(alt),
						formatFloat(lat),
						formatFloat(lon),
						day.Format("2006-01-02"),
					}
					if err := w.Write(rec); err != nil {
						log.Fatalf("failed to write row: %v", err)
					}
					rows++
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("failed to flush output: %v", err)
	}
	log.Printf("wrote %d rows to %s", rows, *output)
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseDates(s string) ([]time.Time, error) {
	parts := strings.Split(s, ",")
	out := make([]time.Time, 0, len(parts))
	for _, p := range parts {
		t, err := time.Parse("2006-01-02", strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", p, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
