package prediction

import (
	"fmt"
	"slices"

	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

// Input bounds accepted by the request surface
const (
	MinDistanceKm      = 0.1
	MaxDistanceKm      = 50.0
	MinPreparationMin  = 1
	MaxPreparationMin  = 120
	MinExperienceYears = 0
	MaxExperienceYears = 20
)

// Values the form is pre-filled with
const (
	DefaultDistanceKm      = 7.5
	DefaultPreparationMin  = 15
	DefaultExperienceYears = 5
)

// Selector options offered by the request form, in display order
var (
	TrafficLevels        = []string{"Low", "Medium", "High"}
	ExperienceCategories = []string{"Beginner", "Intermediate", "Expert"}
	WeatherConditions    = []string{"Sunny", "Rainy", "Cloudy"}
	TimesOfDay           = []string{"Morning", "Afternoon", "Evening", "Night"}
	VehicleTypes         = []string{"Motorcycle", "Car", "Bicycle"}
)

// DefaultRequest returns the values the form is pre-filled with
func DefaultRequest() types.DeliveryRequest {
	return types.DeliveryRequest{
		TrafficLevel:              TrafficLevels[0],
		CourierExperienceCategory: ExperienceCategories[0],
		Weather:                   WeatherConditions[0],
		TimeOfDay:                 TimesOfDay[0],
		VehicleType:               VehicleTypes[0],
		DistanceKm:                DefaultDistanceKm,
		PreparationTimeMin:        DefaultPreparationMin,
		CourierExperienceYrs:      DefaultExperienceYears,
	}
}

// FromInput converts a bound input into a request. Every omitted numeric
// field is reported; an explicit 0 is kept and left to Validate.
func FromInput(in types.DeliveryInput) (types.DeliveryRequest, error) {
	req := types.DeliveryRequest{
		TrafficLevel:              in.TrafficLevel,
		CourierExperienceCategory: in.CourierExperienceCategory,
		Weather:                   in.Weather,
		TimeOfDay:                 in.TimeOfDay,
		VehicleType:               in.VehicleType,
	}

	missing := make(map[string]string)
	if in.DistanceKm != nil {
		req.DistanceKm = *in.DistanceKm
	} else {
		missing["distance_km"] = "is required"
	}
	if in.PreparationTimeMin != nil {
		req.PreparationTimeMin = *in.PreparationTimeMin
	} else {
		missing["preparation_time_min"] = "is required"
	}
	if in.CourierExperienceYrs != nil {
		req.CourierExperienceYrs = *in.CourierExperienceYrs
	} else {
		missing["courier_experience_yrs"] = "is required"
	}

	if len(missing) > 0 {
		return req, apperrors.NewValidationErrorWithMap(missing)
	}
	return req, nil
}

// Validate checks every field and reports all problems at once
func Validate(req types.DeliveryRequest) error {
	problems := make(map[string]string)

	checkOption := func(field, value string, options []string) {
		if !slices.Contains(options, value) {
			problems[field] = fmt.Sprintf("must be one of %v", options)
		}
	}

	checkOption("traffic_level", req.TrafficLevel, TrafficLevels)
	checkOption("courier_experience_category", req.CourierExperienceCategory, ExperienceCategories)
	checkOption("weather", req.Weather, WeatherConditions)
	checkOption("time_of_day", req.TimeOfDay, TimesOfDay)
	checkOption("vehicle_type", req.VehicleType, VehicleTypes)

	// written so NaN fails too
	if !(req.DistanceKm >= MinDistanceKm && req.DistanceKm <= MaxDistanceKm) {
		problems["distance_km"] = fmt.Sprintf("must be between %.1f and %.1f", MinDistanceKm, MaxDistanceKm)
	}
	if req.PreparationTimeMin < MinPreparationMin || req.PreparationTimeMin > MaxPreparationMin {
		problems["preparation_time_min"] = fmt.Sprintf("must be between %d and %d", MinPreparationMin, MaxPreparationMin)
	}
	if req.CourierExperienceYrs < MinExperienceYears || req.CourierExperienceYrs > MaxExperienceYears {
		problems["courier_experience_yrs"] = fmt.Sprintf("must be between %d and %d", MinExperienceYears, MaxExperienceYears)
	}

	if len(problems) > 0 {
		return apperrors.NewValidationErrorWithMap(problems)
	}
	return nil
}
