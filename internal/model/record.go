package model

// PriceRecord is one historical row of the training dataset.
type PriceRecord struct {
	Context   PricingContext
	RoomPrice float64 // training target, INR
}
