package encoder

import "fmt"

// InvalidDayError reports a day value that is neither a known day name nor a
// 1~7 ordinal. It is fatal to the single prediction that supplied it.
type InvalidDayError struct {
	Value string
}

func (e *InvalidDayError) Error() string {
	return fmt.Sprintf("invalid day of week: %q (want Monday..Sunday or ordinal 1-7)", e.Value)
}

// MissingFeatureError reports a pricing context lacking a required field.
type MissingFeatureError struct {
	Field string
}

func (e *MissingFeatureError) Error() string {
	return fmt.Sprintf("missing required feature: %s", e.Field)
}
