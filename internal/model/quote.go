package model

import "time"

// Adjustment records one multiplicative step applied to the running price.
type Adjustment struct {
	Name       string
	Multiplier float64
	Commentary string
}

// PriceQuote is the final output of the pricing pipeline.
//
// FinalPrice = BasePrice multiplied by every Adjustment.Multiplier in order.
type PriceQuote struct {
	Context     PricingContext
	BasePrice   float64
	Adjustments []Adjustment
	FinalPrice  float64
	ModelID     string
	QuotedAt    time.Time
}
