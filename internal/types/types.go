package types

// DeliveryRequest represents the parameters of one ETA estimate
type DeliveryRequest struct {
	TrafficLevel              string  `json:"traffic_level"`
	CourierExperienceCategory string  `json:"courier_experience_category"`
	Weather                   string  `json:"weather"`
	TimeOfDay                 string  `json:"time_of_day"`
	VehicleType               string  `json:"vehicle_type"`
	DistanceKm                float64 `json:"distance_km"`
	PreparationTimeMin        int     `json:"preparation_time_min"`
	CourierExperienceYrs      int     `json:"courier_experience_yrs"`
}

// DeliveryInput binds JSON bodies, HTML forms and chart query strings.
// Numeric fields are pointers so an omitted value is not mistaken for 0.
type DeliveryInput struct {
	TrafficLevel              string   `json:"traffic_level" form:"traffic_level" binding:"required"`
	CourierExperienceCategory string   `json:"courier_experience_category" form:"courier_experience_category" binding:"required"`
	Weather                   string   `json:"weather" form:"weather" binding:"required"`
	TimeOfDay                 string   `json:"time_of_day" form:"time_of_day" binding:"required"`
	VehicleType               string   `json:"vehicle_type" form:"vehicle_type" binding:"required"`
	DistanceKm                *float64 `json:"distance_km" form:"distance_km"`
	PreparationTimeMin        *int     `json:"preparation_time_min" form:"preparation_time_min"`
	CourierExperienceYrs      *int     `json:"courier_experience_yrs" form:"courier_experience_yrs"`
}

// Delivery is one historical row of the delivery dataset
type Delivery struct {
	OrderID                   int64   `json:"order_id" db:"order_id"`
	DistanceKm                float64 `json:"distance_km" db:"distance_km"`
	Weather                   string  `json:"weather" db:"weather"`
	TrafficLevel              string  `json:"traffic_level" db:"traffic_level"`
	TimeOfDay                 string  `json:"time_of_day" db:"time_of_day"`
	VehicleType               string  `json:"vehicle_type" db:"vehicle_type"`
	PreparationTimeMin        float64 `json:"preparation_time_min" db:"preparation_time_min"`
	CourierExperienceYrs      float64 `json:"courier_experience_yrs" db:"courier_experience_yrs"`
	CourierExperienceCategory string  `json:"courier_experience_category" db:"courier_experience_category"`
	DeliveryTimeMin           float64 `json:"delivery_time_min" db:"delivery_time_min"`
}

// Scope narrows analytics to one time segment, traffic level or weather.
// Empty fields and "All" mean no filter.
type Scope struct {
	TimeOfDay    string `json:"time_of_day,omitempty" form:"time_of_day"`
	TrafficLevel string `json:"traffic_level,omitempty" form:"traffic_level"`
	Weather      string `json:"weather,omitempty" form:"weather"`
}
