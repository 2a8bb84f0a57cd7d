package entity

// TrendLabel classifica a inclinação da série de custos de um serviço.
type TrendLabel string

const (
	TrendVerySignificantIncrease TrendLabel = "VERY_SIGNIFICANT_INCREASE"
	TrendSignificantIncrease     TrendLabel = "SIGNIFICANT_INCREASE"
	TrendIncrease                TrendLabel = "INCREASE"
	TrendNoChange                TrendLabel = "NO_CHANGE"
	TrendDecrease                TrendLabel = "DECREASE"
)

// Severity returns the color tag shown next to the label.
func (l TrendLabel) Severity() string {
	switch l {
	case TrendVerySignificantIncrease:
		return "RED"
	case TrendSignificantIncrease:
		return "ORANGE"
	case TrendIncrease:
		return "YELLOW"
	case TrendDecrease:
		return "BLUE"
	default:
		return "GREEN"
	}
}

// Message é o texto legível exibido no console e nos relatórios.
func (l TrendLabel) Message() string {
	switch l {
	case TrendVerySignificantIncrease:
		return "[RED] VERY SIGNIFICANT INCREASE in costs!!!"
	case TrendSignificantIncrease:
		return "[ORANGE] SIGNIFICANT INCREASE in costs!!"
	case TrendIncrease:
		return "[YELLOW] INCREASE in costs!"
	case TrendDecrease:
		return "[BLUE] DECREASE in costs!"
	default:
		return "[GREEN] No change in costs."
	}
}

// ServiceTrend is the classification of one service's cost history.
type ServiceTrend struct {
	Service   string     `json:"service"`
	Label     TrendLabel `json:"label"`
	Slope     float64    `json:"slope"`
	Intercept float64    `json:"intercept"`
	Points    int        `json:"points"`
}
