package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abhi24703/dynamicpricing/internal/model"
)

// Column names expected in the CSV header, in any order.
const (
	colDay        = "Day_of_Week"
	colWeekend    = "Is_Weekend"
	colHoliday    = "Is_Holiday"
	colOccupancy  = "Occupancy_Rate"
	colCompetitor = "Competitor_Price"
	colPrice      = "Room_Price"
)

// CSVSource reads historical price records from a CSV file with the columns
// Day_of_Week, Is_Weekend, Is_Holiday, Occupancy_Rate, Competitor_Price,
// Room_Price.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource { return &CSVSource{Path: path} }

func (s *CSVSource) Name() string { return "csv:" + s.Path }

func (s *CSVSource) Load() ([]model.PriceRecord, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", s.Path)
	}

	idx, err := headerIndex(rows[0])
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", s.Path, err)
	}

	records := make([]model.PriceRecord, 0, len(rows)-1)
	for line, row := range rows[1:] {
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("dataset %s line %d: %w", s.Path, line+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDay, colWeekend, colHoliday, colOccupancy, colCompetitor, colPrice} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int) (model.PriceRecord, error) {
	cell := func(col string) string { return strings.TrimSpace(row[idx[col]]) }

	weekend, err := parseBinary(cell(colWeekend))
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("%s: %w", colWeekend, err)
	}
	holiday, err := parseBinary(cell(colHoliday))
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("%s: %w", colHoliday, err)
	}
	occupancy, err := strconv.ParseFloat(cell(colOccupancy), 64)
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("%s: %w", colOccupancy, err)
	}
	competitor, err := strconv.ParseFloat(cell(colCompetitor), 64)
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("%s: %w", colCompetitor, err)
	}
	price, err := strconv.ParseFloat(cell(colPrice), 64)
	if err != nil {
		return model.PriceRecord{}, fmt.Errorf("%s: %w", colPrice, err)
	}

	return model.PriceRecord{
		Context: model.PricingContext{
			DayOfWeek:       cell(colDay),
			IsWeekend:       weekend,
			IsHoliday:       holiday,
			OccupancyRate:   occupancy,
			CompetitorPrice: competitor,
		},
		RoomPrice: price,
	}, nil
}

func parseBinary(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("want 0 or 1, got %q", s)
	}
}
