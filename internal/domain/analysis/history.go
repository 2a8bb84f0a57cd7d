package analysis

import "github.com/shopspring/decimal"

// ServiceHistory acumula, para uma única conta, a sequência de custos de cada
// serviço. Só cresce; uma nova instância deve ser criada para cada conta.
type ServiceHistory struct {
	order  []string
	values map[string][]decimal.Decimal
}

// NewServiceHistory cria um histórico vazio.
func NewServiceHistory() *ServiceHistory {
	return &ServiceHistory{values: make(map[string][]decimal.Decimal)}
}

// Append adds one value to the service's history, creating it on first sight.
func (h *ServiceHistory) Append(service string, value decimal.Decimal) {
	if _, ok := h.values[service]; !ok {
		h.order = append(h.order, service)
	}
	h.values[service] = append(h.values[service], value)
}

// Services returns service names in first-seen order.
func (h *ServiceHistory) Services() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Values returns a copy of the service's history, or nil when unknown.
func (h *ServiceHistory) Values(service string) []decimal.Decimal {
	vals, ok := h.values[service]
	if !ok {
		return nil
	}
	out := make([]decimal.Decimal, len(vals))
	copy(out, vals)
	return out
}

// Len is the number of services tracked.
func (h *ServiceHistory) Len() int {
	return len(h.order)
}
