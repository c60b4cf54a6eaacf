// Package frontend renders the server-side HTML pages: the delivery form and
// the simulation result with its embedded charts.
package frontend

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/delivery-eta/internal/prediction"
	"github.com/ZanzyTHEbar/delivery-eta/internal/types"
)

// Options lists the choices offered by the form selects
type Options struct {
	TrafficLevels        []string
	ExperienceCategories []string
	WeatherConditions    []string
	TimesOfDay           []string
	VehicleTypes         []string
}

// DefaultOptions returns the request option sets
func DefaultOptions() Options {
	return Options{
		TrafficLevels:        prediction.TrafficLevels,
		ExperienceCategories: prediction.ExperienceCategories,
		WeatherConditions:    prediction.WeatherConditions,
		TimesOfDay:           prediction.TimesOfDay,
		VehicleTypes:         prediction.VehicleTypes,
	}
}

// Limits are the numeric input bounds shown on the form
type Limits struct {
	MinDistanceKm, MaxDistanceKm         float64
	MinPreparationMin, MaxPreparationMin int
	MinExperienceYrs, MaxExperienceYrs   int
}

// FormView is the data behind the form page
type FormView struct {
	Request      types.DeliveryRequest
	Options      Options
	Limits       Limits
	Errors       map[string]string
	Message      string
	ModelMissing bool
}

// ResultView is the data behind the result page
type ResultView struct {
	Simulation prediction.Simulation
	// ChartQuery is already encoded; the type keeps html/template from
	// escaping its separators
	ChartQuery template.URL
}

// Pages holds the parsed page templates
type Pages struct {
	tmpl *template.Template
}

var funcs = template.FuncMap{
	"fmt2": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"fmt1": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
	"signed": func(v float64) string {
		return fmt.Sprintf("%+.0f km", v)
	},
	"css": func(s string) template.CSS { return template.CSS(s) },
	"dict": func(pairs ...any) (map[string]any, error) {
		if len(pairs)%2 != 0 {
			return nil, fmt.Errorf("dict needs key value pairs")
		}
		m := make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
			}
			m[key] = pairs[i+1]
		}
		return m, nil
	},
}

// NewPages parses the embedded templates
func NewPages() (*Pages, error) {
	tmpl, err := template.New("pages").Funcs(funcs).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &Pages{tmpl: tmpl}, nil
}

// NewFormView prepares the form for req
func NewFormView(req types.DeliveryRequest) FormView {
	return FormView{
		Request: req,
		Options: DefaultOptions(),
		Limits: Limits{
			MinDistanceKm:     prediction.MinDistanceKm,
			MaxDistanceKm:     prediction.MaxDistanceKm,
			MinPreparationMin: prediction.MinPreparationMin,
			MaxPreparationMin: prediction.MaxPreparationMin,
			MinExperienceYrs:  prediction.MinExperienceYears,
			MaxExperienceYrs:  prediction.MaxExperienceYears,
		},
	}
}

// NewResultView prepares the result page for sim
func NewResultView(sim prediction.Simulation) ResultView {
	return ResultView{Simulation: sim, ChartQuery: template.URL(ChartQuery(sim.Request))}
}

// ChartQuery encodes req as the query string chart endpoints bind
func ChartQuery(req types.DeliveryRequest) string {
	v := url.Values{}
	v.Set("traffic_level", req.TrafficLevel)
	v.Set("courier_experience_category", req.CourierExperienceCategory)
	v.Set("weather", req.Weather)
	v.Set("time_of_day", req.TimeOfDay)
	v.Set("vehicle_type", req.VehicleType)
	v.Set("distance_km", strconv.FormatFloat(req.DistanceKm, 'f', -1, 64))
	v.Set("preparation_time_min", strconv.Itoa(req.PreparationTimeMin))
	v.Set("courier_experience_yrs", strconv.Itoa(req.CourierExperienceYrs))
	return v.Encode()
}

// RenderForm writes the form page with status
func (p *Pages) RenderForm(c *gin.Context, status int, view FormView) {
	p.render(c, status, "form.html", view)
}

// RenderResult writes the result page
func (p *Pages) RenderResult(c *gin.Context, view ResultView) {
	p.render(c, http.StatusOK, "result.html", view)
}

func (p *Pages) render(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		_ = c.Error(fmt.Errorf("failed to render %s: %w", name, err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
