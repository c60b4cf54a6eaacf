package prediction

import (
	apperrors "github.com/ZanzyTHEbar/delivery-eta/internal/errors"
	"github.com/ZanzyTHEbar/delivery-eta/internal/model"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

// Feature names produced from a request
const (
	FeatureTrafficLevel          = "traffic_level"
	FeatureExperienceCategory    = "courier_experience_category"
	FeatureWeather               = "weather"
	FeatureTimeOfDay             = "time_of_day"
	FeatureVehicleType           = "vehicle_type"
	FeatureDistanceKm            = "distance_km"
	FeaturePreparationTimeMin    = "preparation_time_min"
	FeatureExperienceYears       = "courier_experience_yrs"
	FeatureDistancePerExperience = "distance_per_experience"
)

// Schema is anything that can report the ordered feature names it expects
type Schema interface {
	FeatureNames() []string
}

// DistancePerExperience is the engineered ratio the model was trained on
func DistancePerExperience(distanceKm float64, years int) float64 {
	return distanceKm / float64(years+1)
}

// Record returns every feature derivable from req, keyed by name
func Record(req types.DeliveryRequest) map[string]model.Feature {
	features := []model.Feature{
		model.CategoricalFeature(FeatureTrafficLevel, req.TrafficLevel),
		model.CategoricalFeature(FeatureExperienceCategory, req.CourierExperienceCategory),
		model.CategoricalFeature(FeatureWeather, req.Weather),
		model.CategoricalFeature(FeatureTimeOfDay, req.TimeOfDay),
		model.CategoricalFeature(FeatureVehicleType, req.VehicleType),
		model.NumericFeature(FeatureDistanceKm, req.DistanceKm),
		model.NumericFeature(FeaturePreparationTimeMin, float64(req.PreparationTimeMin)),
		model.NumericFeature(FeatureExperienceYears, float64(req.CourierExperienceYrs)),
		model.NumericFeature(FeatureDistancePerExperience, DistancePerExperience(req.DistanceKm, req.CourierExperienceYrs)),
	}

	record := make(map[string]model.Feature, len(features))
	for _, f := range features {
		record[f.Name] = f
	}
	return record
}

// Assembler lays a request out in the order the model declares
type Assembler struct {
	schema Schema
}

// NewAssembler creates an assembler bound to schema
func NewAssembler(schema Schema) *Assembler {
	return &Assembler{schema: schema}
}

// Assemble builds the feature vector for req. The order comes from the
// schema at call time, so a retrained model with a different layout needs
// no code change. Schema features the request cannot supply are reported
// as a schema mismatch.
func (a *Assembler) Assemble(req types.DeliveryRequest) (model.Vector, error) {
	record := Record(req)
	names := a.schema.FeatureNames()

	vector := make(model.Vector, 0, len(names))
	var missing []string
	for _, name := range names {
		f, ok := record[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		vector = append(vector, f)
	}

	if len(missing) > 0 {
		return nil, apperrors.NewSchemaMismatchError("model expects features the request cannot supply", missing)
	}
	return vector, nil
}
