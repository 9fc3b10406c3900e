package multisig

// Period is how often a spending limit resets.
type Period uint8

const (
	PeriodOneTime Period = iota
	PeriodDay
	PeriodWeek
	PeriodMonth
)

func (d *borshDecoder) period(dst *Period) {
	var v uint8
	d.uint8(&v)
	if d.err == nil && Period(v) > PeriodMonth {
		d.fail(ErrInvalidAccountData)
		return
	}
	*dst = Period(v)
}

func (p Period) String() string {
	switch p {
	case PeriodOneTime:
		return "one_time"
	case PeriodDay:
		return "day"
	case PeriodWeek:
		return "week"
	case PeriodMonth:
		return "month"
	}
	return "unknown"
}
