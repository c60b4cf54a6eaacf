package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

// DefaultLateThresholdMin is the delivery time above which an order is late
const DefaultLateThresholdMin = 40.0

// PerformanceRiskQuantile marks the slowest quarter of deliveries
const PerformanceRiskQuantile = 0.75

// Baseline conditions used for structural escalation
const (
	BaselineTraffic = "Low"
	BaselineWeather = "Clear"
)

// ScopeAll disables a scope filter
const ScopeAll = "All"

// GroupFields lists the columns GroupBy accepts
var GroupFields = []string{
	ColumnTimeOfDay,
	ColumnTrafficLevel,
	ColumnWeather,
	ColumnExperienceYrs,
	ColumnExperienceCategory,
	ColumnVehicleType,
}

func matches(filter, value string) bool {
	return filter == "" || filter == ScopeAll || filter == value
}

// Apply returns the deliveries inside scope
func Apply(deliveries []types.Delivery, scope types.Scope) []types.Delivery {
	out := make([]types.Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		if matches(scope.TimeOfDay, d.TimeOfDay) &&
			matches(scope.TrafficLevel, d.TrafficLevel) &&
			matches(scope.Weather, d.Weather) {
			out = append(out, d)
		}
	}
	return out
}

// ScopeOptions are the filter values present in a dataset
type ScopeOptions struct {
	TimesOfDay    []string `json:"time_of_day"`
	TrafficLevels []string `json:"traffic_level"`
	Weather       []string `json:"weather"`
}

// Options lists the distinct scope values in sorted order
func Options(deliveries []types.Delivery) ScopeOptions {
	return ScopeOptions{
		TimesOfDay:    distinct(deliveries, func(d types.Delivery) string { return d.TimeOfDay }),
		TrafficLevels: distinct(deliveries, func(d types.Delivery) string { return d.TrafficLevel }),
		Weather:       distinct(deliveries, func(d types.Delivery) string { return d.Weather }),
	}
}

func distinct(deliveries []types.Delivery, key func(types.Delivery) string) []string {
	seen := make(map[string]struct{})
	for _, d := range deliveries {
		seen[key(d)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func deliveryTimes(deliveries []types.Delivery) []float64 {
	times := make([]float64, len(deliveries))
	for i, d := range deliveries {
		times[i] = d.DeliveryTimeMin
	}
	return times
}

// stdDev is the sample standard deviation, zero below two samples
func stdDev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.StdDev(x, nil)
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// median averages the two middle values for even counts
func median(x []float64) float64 {
	sorted := append([]float64(nil), x...)
	sort.Float64s(sorted)
	return quantile(sorted, 0.5)
}

// quantile interpolates linearly between the closest ranks at (n-1)*p
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Summary holds the headline KPIs for a scope
type Summary struct {
	Count              int     `json:"count"`
	AvgDeliveryMin     float64 `json:"avg_delivery_min"`
	LateRatePct        float64 `json:"late_rate_pct"`
	LateThresholdMin   float64 `json:"late_threshold_min"`
	AvgDistanceKm      float64 `json:"avg_distance_km"`
	PeakSegment        string  `json:"peak_segment"`
	Volatility         float64 `json:"volatility"`
	CompoundedRiskPct  float64 `json:"compounded_risk_pct"`
	PerformanceRiskPct float64 `json:"performance_risk_pct"`
}

// Summarize computes the KPIs of deliveries. An empty slice yields a zero
// summary with PeakSegment "N/A".
func Summarize(deliveries []types.Delivery, lateThresholdMin float64) Summary {
	summary := Summary{
		Count:            len(deliveries),
		LateThresholdMin: lateThresholdMin,
		PeakSegment:      "N/A",
	}
	if len(deliveries) == 0 {
		return summary
	}

	times := deliveryTimes(deliveries)
	distances := make([]float64, len(deliveries))
	late, compounded := 0, 0
	for i, d := range deliveries {
		distances[i] = d.DistanceKm
		if d.DeliveryTimeMin > lateThresholdMin {
			late++
		}
		if d.TrafficLevel == "High" && d.Weather != BaselineWeather {
			compounded++
		}
	}

	summary.AvgDeliveryMin = mean(times)
	summary.LateRatePct = percent(late, len(deliveries))
	summary.AvgDistanceKm = mean(distances)
	summary.Volatility = stdDev(times)
	summary.CompoundedRiskPct = percent(compounded, len(deliveries))
	summary.PerformanceRiskPct = PerformanceRisk(deliveries)

	groups, _ := GroupBy(deliveries, ColumnTimeOfDay)
	if len(groups) > 0 {
		summary.PeakSegment = groups[len(groups)-1].Level
	}

	return summary
}

// GroupStat describes delivery times for one level of a field
type GroupStat struct {
	Level  string  `json:"level"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Count  int     `json:"count"`
}

func fieldValue(d types.Delivery, field string) (string, bool) {
	switch field {
	case ColumnTimeOfDay:
		return d.TimeOfDay, true
	case ColumnTrafficLevel:
		return d.TrafficLevel, true
	case ColumnWeather:
		return d.Weather, true
	case ColumnExperienceYrs:
		return strconv.FormatFloat(d.CourierExperienceYrs, 'f', -1, 64), true
	case ColumnExperienceCategory:
		return d.CourierExperienceCategory, true
	case ColumnVehicleType:
		return d.VehicleType, true
	default:
		return "", false
	}
}

// GroupBy aggregates delivery times per level of field, sorted by mean
// ascending. Unknown fields are a validation error.
func GroupBy(deliveries []types.Delivery, field string) ([]GroupStat, error) {
	field = strings.ToLower(field)
	if _, ok := fieldValue(types.Delivery{}, field); !ok {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unknown group field %q", field), strings.Join(GroupFields, ", "))
	}

	buckets := make(map[string][]float64)
	for _, d := range deliveries {
		level, _ := fieldValue(d, field)
		if level == "" {
			continue
		}
		buckets[level] = append(buckets[level], d.DeliveryTimeMin)
	}

	groups := make([]GroupStat, 0, len(buckets))
	for level, times := range buckets {
		groups = append(groups, GroupStat{
			Level:  level,
			Mean:   mean(times),
			Median: median(times),
			Std:    stdDev(times),
			Count:  len(times),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Mean == groups[j].Mean {
			return groups[i].Level < groups[j].Level
		}
		return groups[i].Mean < groups[j].Mean
	})

	return groups, nil
}

// BaselineMean is the mean delivery time under Low traffic and Clear
// weather. ok is false when no delivery matches.
func BaselineMean(all []types.Delivery) (value float64, ok bool) {
	baseline := Apply(all, types.Scope{TrafficLevel: BaselineTraffic, Weather: BaselineWeather})
	if len(baseline) == 0 {
		return 0, false
	}
	return mean(deliveryTimes(baseline)), true
}

// StructuralEscalation is the percent change of the scoped mean against the
// baseline mean of the full dataset. It is zero when the baseline is
// missing or zero, or the scope is empty.
func StructuralEscalation(scoped, all []types.Delivery) float64 {
	baseline, ok := BaselineMean(all)
	if !ok || baseline == 0 || len(scoped) == 0 {
		return 0
	}
	return (mean(deliveryTimes(scoped)) - baseline) / baseline * 100
}

// PerformanceRisk is the percent of deliveries at or above the 0.75
// quantile of delivery time
func PerformanceRisk(deliveries []types.Delivery) float64 {
	if len(deliveries) == 0 {
		return 0
	}
	times := deliveryTimes(deliveries)
	sort.Float64s(times)
	threshold := quantile(times, PerformanceRiskQuantile)

	slow := 0
	for _, v := range times {
		if v >= threshold {
			slow++
		}
	}
	return percent(slow, len(times))
}

// InteractionCell is the mean delivery time for one traffic and weather pair
type InteractionCell struct {
	TrafficLevel string  `json:"traffic_level"`
	Weather      string  `json:"weather"`
	Mean         float64 `json:"mean"`
	Count        int     `json:"count"`
}

// InteractionMatrix crosses traffic levels with weather conditions
type InteractionMatrix struct {
	TrafficLevels []string          `json:"traffic_levels"`
	Weather       []string          `json:"weather"`
	Cells         []InteractionCell `json:"cells"`
}

// Interaction builds the traffic by weather matrix. Only observed pairs
// produce cells.
func Interaction(deliveries []types.Delivery) InteractionMatrix {
	type key struct{ traffic, weather string }
	buckets := make(map[key][]float64)
	for _, d := range deliveries {
		k := key{d.TrafficLevel, d.Weather}
		buckets[k] = append(buckets[k], d.DeliveryTimeMin)
	}

	options := Options(deliveries)
	matrix := InteractionMatrix{
		TrafficLevels: options.TrafficLevels,
		Weather:       options.Weather,
		Cells:         make([]InteractionCell, 0, len(buckets)),
	}
	for _, traffic := range matrix.TrafficLevels {
		for _, weather := range matrix.Weather {
			times, ok := buckets[key{traffic, weather}]
			if !ok {
				continue
			}
			matrix.Cells = append(matrix.Cells, InteractionCell{
				TrafficLevel: traffic,
				Weather:      weather,
				Mean:         mean(times),
				Count:        len(times),
			})
		}
	}
	return matrix
}

// CourierFilter narrows the courier report. A zero MaxDistanceKm means no
// distance limit.
type CourierFilter struct {
	MinExperienceYrs float64 `json:"min_experience_yrs" form:"min_experience_yrs"`
	MaxDistanceKm    float64 `json:"max_distance_km" form:"max_distance_km"`
}

// Elasticity is the least squares fit of delivery time on distance
type Elasticity struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// CourierReport summarises courier execution under a filter
type CourierReport struct {
	Count             int         `json:"count"`
	AvgDeliveryMin    float64     `json:"avg_delivery_min"`
	Volatility        float64     `json:"volatility"`
	HighDelayPct      float64     `json:"high_delay_pct"`
	ProductivityRatio float64     `json:"productivity_ratio"`
	Elasticity        Elasticity  `json:"elasticity"`
	ByExperience      []GroupStat `json:"by_experience"`
	ByCategory        []GroupStat `json:"by_category"`
}

// CourierEfficiency reports execution metrics for couriers with at least
// MinExperienceYrs of experience on trips up to MaxDistanceKm
func CourierEfficiency(deliveries []types.Delivery, filter CourierFilter) CourierReport {
	scoped := make([]types.Delivery, 0, len(deliveries))
	for _, d := range deliveries {
		if d.CourierExperienceYrs < filter.MinExperienceYrs {
			continue
		}
		if filter.MaxDistanceKm > 0 && d.DistanceKm > filter.MaxDistanceKm {
			continue
		}
		scoped = append(scoped, d)
	}

	report := CourierReport{Count: len(scoped)}
	if len(scoped) == 0 {
		return report
	}

	times := deliveryTimes(scoped)
	distances := make([]float64, len(scoped))
	var ratios []float64
	for i, d := range scoped {
		distances[i] = d.DistanceKm
		if d.DeliveryTimeMin > 0 {
			ratios = append(ratios, d.DistanceKm/d.DeliveryTimeMin)
		}
	}

	report.AvgDeliveryMin = mean(times)
	report.Volatility = stdDev(times)
	report.HighDelayPct = PerformanceRisk(scoped)
	report.ProductivityRatio = mean(ratios)
	report.Elasticity = fitElasticity(distances, times)

	report.ByExperience, _ = GroupBy(scoped, ColumnExperienceYrs)
	sort.Slice(report.ByExperience, func(i, j int) bool {
		a, _ := strconv.ParseFloat(report.ByExperience[i].Level, 64)
		b, _ := strconv.ParseFloat(report.ByExperience[j].Level, 64)
		return a < b
	})
	report.ByCategory, _ = GroupBy(scoped, ColumnExperienceCategory)

	return report
}

func fitElasticity(distances, times []float64) Elasticity {
	if len(distances) < 2 || stdDev(distances) == 0 {
		return Elasticity{}
	}
	alpha, beta := stat.LinearRegression(distances, times, nil, false)
	r2 := stat.RSquared(distances, times, nil, alpha, beta)
	if math.IsNaN(r2) {
		r2 = 0
	}
	return Elasticity{Slope: beta, Intercept: alpha, RSquared: r2}
}
