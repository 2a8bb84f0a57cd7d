package analysis

import (
	"github.com/diillson/aws-cost-trends/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// NormalizedAccount é o resultado da normalização dos períodos de uma conta.
type NormalizedAccount struct {
	Totals  []entity.AccountMonthlyTotal
	History *ServiceHistory
}

// GrandTotal sums every monthly total.
func (n NormalizedAccount) GrandTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range n.Totals {
		sum = sum.Add(t.TotalCost)
	}
	return sum
}

// Normalize reduces the periods of one account into monthly totals and a
// per-service history. Totals follow input order, one per period. Estimated
// periods count towards totals but never enter the history. Amounts for the
// same service within one period are summed before being appended.
//
// A malformed amount aborts the whole account with a *ParseError.
func Normalize(periods []entity.CostPeriod) (NormalizedAccount, error) {
	totals := make([]entity.AccountMonthlyTotal, 0, len(periods))
	history := NewServiceHistory()

	for _, period := range periods {
		total := decimal.Zero
		var seen []string
		perService := make(map[string]decimal.Decimal)

		for _, group := range period.Groups {
			amount, err := decimal.NewFromString(group.Amount)
			if err != nil {
				return NormalizedAccount{}, &ParseError{
					Period:  period.PeriodStart,
					Service: group.ServiceKey,
					Amount:  group.Amount,
					Err:     err,
				}
			}
			total = total.Add(amount)

			if period.Estimated {
				continue
			}
			if _, ok := perService[group.ServiceKey]; !ok {
				seen = append(seen, group.ServiceKey)
			}
			perService[group.ServiceKey] = perService[group.ServiceKey].Add(amount)
		}

		// Só acumula depois do período inteiro ter sido lido sem erro.
		for _, service := range seen {
			history.Append(service, perService[service])
		}
		totals = append(totals, entity.MonthlyTotalFor(period.PeriodStart, total))
	}

	return NormalizedAccount{Totals: totals, History: history}, nil
}
