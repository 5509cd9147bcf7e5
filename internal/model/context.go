package model

// PricingContext is the input to a single price prediction.
//
// DayOfWeek accepts either a day name ("Tuesday") or a 1-based ordinal
// ("2", 1 = Monday). IsWeekend and IsHoliday are independent inputs and are
// never derived from DayOfWeek; the caller owns their consistency.
type PricingContext struct {
	DayOfWeek       string
	IsWeekend       bool
	IsHoliday       bool
	OccupancyRate   float64 // semantically 0.0 ~ 1.0, not clamped
	CompetitorPrice float64 // INR
}

// The With* methods return a copy with one field overridden. They exist so
// scenario code can hold a base context fixed and vary a single factor.

func (c PricingContext) WithDay(day string) PricingContext {
	c.DayOfWeek = day
	return c
}

func (c PricingContext) WithWeekend(weekend bool) PricingContext {
	c.IsWeekend = weekend
	return c
}

func (c PricingContext) WithHoliday(holiday bool) PricingContext {
	c.IsHoliday = holiday
	return c
}

func (c PricingContext) WithOccupancy(rate float64) PricingContext {
	c.OccupancyRate = rate
	return c
}

func (c PricingContext) WithCompetitorPrice(price float64) PricingContext {
	c.CompetitorPrice = price
	return c
}
