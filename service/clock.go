package service

import "time"

// Clock supplies the evaluation instant for accrual. It is injected so
// tests can pin time; production wiring passes time.Now.
type Clock func() time.Time

// unix returns the clock reading as unsigned seconds, the unit all
// schedule arithmetic runs in.
func (c Clock) unix() uint64 {
	return uint64(c().Unix())
}
