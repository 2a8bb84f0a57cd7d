package analysis

import (
	"fmt"
	"time"
)

// ParseError is returned when a billing amount is not a valid decimal.
type ParseError struct {
	Period  time.Time
	Service string
	Amount  string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid amount %q for service %q in period %s: %v",
		e.Amount, e.Service, e.Period.Format("2006-01-02"), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
