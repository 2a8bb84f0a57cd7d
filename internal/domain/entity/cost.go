package entity

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// CostUnit é a unidade reportada para todos os valores. Não há conversão de moeda.
const CostUnit = "USD"

// CostGroup representa uma linha agrupada (conta vinculada + serviço) de um período.
// Amount mantém a representação textual devolvida pelo Cost Explorer.
type CostGroup struct {
	AccountKey string `json:"account_key"`
	ServiceKey string `json:"service_key"`
	Amount     string `json:"amount"`
}

// CostPeriod representa uma janela mensal de custos, na ordem de chegada.
type CostPeriod struct {
	PeriodStart time.Time   `json:"period_start"`
	Estimated   bool        `json:"estimated"`
	Groups      []CostGroup `json:"groups"`
}

// AccountMonthlyTotal é o custo total de uma conta em um período mensal.
type AccountMonthlyTotal struct {
	Year      int             `json:"year"`
	Month     string          `json:"month"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// MonthLabel returns the "Jan 2006" style label used by charts and tables.
func (t AccountMonthlyTotal) MonthLabel() string {
	return t.Month + " " + strconv.Itoa(t.Year)
}

// MonthlyTotalFor builds the total entry for a period start date.
func MonthlyTotalFor(periodStart time.Time, total decimal.Decimal) AccountMonthlyTotal {
	return AccountMonthlyTotal{
		Year:      periodStart.Year(),
		Month:     periodStart.Format("Jan"),
		TotalCost: total,
	}
}
