package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/madridpricer/backend/internal/domain"
)

// BargainCSVRepository loads the pre-scored bargain dataset from disk.
// The file is produced offline by the scoring batch; the serving process
// only ever reads it.
type BargainCSVRepository struct {
	path string
}

// NewBargainCSVRepository creates a repository over the given CSV path.
func NewBargainCSVRepository(path string) *BargainCSVRepository {
	return &BargainCSVRepository{path: path}
}

// Load reads every listing row. Rows missing a required numeric field are
// skipped rather than failing the whole load.
func (r *BargainCSVRepository) Load(ctx context.Context) ([]domain.BargainRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetUnavailable, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", domain.ErrDatasetUnavailable, err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	for _, required := range []string{"listing_url", "price", "predicted_price", "latitude", "longitude"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: column %q missing", domain.ErrDatasetUnavailable, required)
		}
	}

	var records []domain.BargainRecord
	skipped := 0
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading row: %v", domain.ErrDatasetUnavailable, err)
		}

		price, err1 := strconv.ParseFloat(rec[idx["price"]], 64)
		predicted, err2 := strconv.ParseFloat(rec[idx["predicted_price"]], 64)
		lat, err3 := strconv.ParseFloat(rec[idx["latitude"]], 64)
		lon, err4 := strconv.ParseFloat(rec[idx["longitude"]], 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			skipped++
			continue
		}

		records = append(records, domain.BargainRecord{
			ListingURL:     rec[idx["listing_url"]],
			Price:          price,
			PredictedPrice: predicted,
			Latitude:       lat,
			Longitude:      lon,
		})
	}

	if skipped > 0 {
		log.Printf("[BARGAIN] Skipped %d malformed rows in %s", skipped, r.path)
	}
	return records, nil
}
