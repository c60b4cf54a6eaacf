package prediction

import "fmt"

// RiskStyle is how a tier is presented to users
type RiskStyle struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Insight is the strategic guidance shown for a risk tier
type Insight struct {
	Summary string   `json:"summary"`
	Actions []string `json:"actions"`
	Outlook string   `json:"outlook"`
}

// Narrative is the text selected for one simulation
type Narrative struct {
	Risk           RiskStyle `json:"risk"`
	Interpretation string    `json:"interpretation"`
	Insight        Insight   `json:"insight"`
}

var riskStyles = map[RiskTier]RiskStyle{
	RiskHigh:     {Label: "High Risk", Icon: "🔴", Color: "#ff4d4d"},
	RiskModerate: {Label: "Moderate Risk", Icon: "🟠", Color: "#ffa500"},
	RiskLow:      {Label: "Low Risk", Icon: "🟢", Color: "#2ecc71"},
}

var strategicInsights = map[RiskTier]Insight{
	RiskHigh: {
		Summary: "The predicted delivery time indicates potential operational inefficiencies.",
		Actions: []string{
			"Route re-planning and traffic-aware dispatching",
			"Increasing courier allocation during peak hours",
			"Enhancing preparation workflow efficiency",
		},
		Outlook: "Failure to address this may reduce customer satisfaction and increase delivery variability risk.",
	},
	RiskModerate: {
		Summary: "The delivery performance is within a moderate operational range.",
		Actions: []string{
			"Improve routing algorithms",
			"Balance courier workload distribution",
			"Monitor traffic patterns and peak periods",
		},
		Outlook: "This ensures service stability while maintaining efficiency.",
	},
	RiskLow: {
		Summary: "The predicted delivery time reflects strong operational efficiency.",
		Actions: []string{
			"Maintain existing dispatch policies",
			"Scale operations cautiously during demand spikes",
			"Focus on customer experience and retention strategies",
		},
		Outlook: "This creates opportunities for service differentiation and growth.",
	},
}

var sensitivityRisk = map[SensitivityTier]string{
	HighlySensitive:     "significant operational volatility",
	ModeratelySensitive: "noticeable operational impact",
	RelativelyStable:    "minimal operational risk",
}

// StyleFor returns the presentation of tier
func StyleFor(tier RiskTier) RiskStyle {
	return riskStyles[tier]
}

// StrategicInsight returns the guidance for tier
func StrategicInsight(tier RiskTier) Insight {
	return strategicInsights[tier]
}

// Interpretation explains a sweep's sensitivity tier in one sentence
func Interpretation(tier SensitivityTier) string {
	return fmt.Sprintf(
		"The delivery time prediction appears %s to distance changes, indicating %s under current traffic and courier conditions.",
		tier, sensitivityRisk[tier])
}

// NewNarrative selects all text for a prediction and its sweep
func NewNarrative(result Result, set ScenarioSet) Narrative {
	return Narrative{
		Risk:           StyleFor(result.RiskTier),
		Interpretation: Interpretation(set.Sensitivity),
		Insight:        StrategicInsight(result.RiskTier),
	}
}
