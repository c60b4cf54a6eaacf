package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

// Dataset column names, matched case-insensitively
const (
	ColumnOrderID            = "order_id"
	ColumnDistanceKm         = "distance_km"
	ColumnWeather            = "weather"
	ColumnTrafficLevel       = "traffic_level"
	ColumnTimeOfDay          = "time_of_day"
	ColumnVehicleType        = "vehicle_type"
	ColumnPreparationTimeMin = "preparation_time_min"
	ColumnExperienceYrs      = "courier_experience_yrs"
	ColumnExperienceCategory = "courier_experience_category"
	ColumnDeliveryTimeMin    = "delivery_time_min"
)

var requiredColumns = []string{
	ColumnOrderID,
	ColumnDistanceKm,
	ColumnWeather,
	ColumnTrafficLevel,
	ColumnTimeOfDay,
	ColumnPreparationTimeMin,
	ColumnExperienceYrs,
	ColumnDeliveryTimeMin,
}

// ParseReport counts what happened to each data row
type ParseReport struct {
	Rows    int `json:"rows"`
	Skipped int `json:"skipped"`
}

// LoadCSV parses the dataset file at path
func LoadCSV(path string) ([]types.Delivery, ParseReport, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ParseReport{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	return ParseCSV(file)
}

// ParseCSV reads deliveries from r. Rows with a missing or malformed value
// in a required column are skipped and counted; a missing required column
// fails the whole parse.
func ParseCSV(r io.Reader) ([]types.Delivery, ParseReport, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ParseReport{}, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, ParseReport{}, fmt.Errorf("csv read: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, ParseReport{}, fmt.Errorf("dataset is missing columns: %s", strings.Join(missing, ", "))
	}

	var (
		deliveries []types.Delivery
		report     ParseReport
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, report, fmt.Errorf("csv read: %w", err)
		}

		report.Rows++
		delivery, ok := parseRow(row, columns)
		if !ok {
			report.Skipped++
			continue
		}
		deliveries = append(deliveries, delivery)
	}

	return deliveries, report, nil
}

func parseRow(row []string, columns map[string]int) (types.Delivery, bool) {
	get := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	orderID, err := strconv.ParseInt(get(ColumnOrderID), 10, 64)
	if err != nil {
		return types.Delivery{}, false
	}

	var numbers [4]float64
	for i, name := range []string{ColumnDistanceKm, ColumnPreparationTimeMin, ColumnExperienceYrs, ColumnDeliveryTimeMin} {
		v, err := strconv.ParseFloat(get(name), 64)
		if err != nil {
			return types.Delivery{}, false
		}
		numbers[i] = v
	}

	d := types.Delivery{
		OrderID:                   orderID,
		DistanceKm:                numbers[0],
		PreparationTimeMin:        numbers[1],
		CourierExperienceYrs:      numbers[2],
		DeliveryTimeMin:           numbers[3],
		Weather:                   get(ColumnWeather),
		TrafficLevel:              get(ColumnTrafficLevel),
		TimeOfDay:                 get(ColumnTimeOfDay),
		VehicleType:               get(ColumnVehicleType),
		CourierExperienceCategory: get(ColumnExperienceCategory),
	}
	if d.Weather == "" || d.TrafficLevel == "" || d.TimeOfDay == "" {
		return types.Delivery{}, false
	}
	if d.CourierExperienceCategory == "" {
		d.CourierExperienceCategory = ExperienceCategory(d.CourierExperienceYrs)
	}

	return d, true
}

// ExperienceCategory buckets years of experience the way the bundled
// Food_Delivery_Times_final.csv labels them: 0-2 Beginner, 3-6
// Intermediate, 7 and up Expert
func ExperienceCategory(years float64) string {
	switch {
	case years < 3:
		return "Beginner"
	case years < 7:
		return "Intermediate"
	default:
		return "Expert"
	}
}
