package stock

import "stockcard/internal/core/types"

// Status is the stock level of an article relative to its thresholds.
type Status string

const (
	StatusOutOfStock Status = "out_of_stock"
	StatusLow        Status = "low"
	StatusOverstock  Status = "overstock"
	StatusNormal     Status = "normal"
)

// Classify compares a balance with the article thresholds. A zero max
// threshold means no upper limit.
func Classify(balance, minThreshold, maxThreshold types.Quantity) Status {
	switch {
	case balance <= 0:
		return StatusOutOfStock
	case balance <= minThreshold:
		return StatusLow
	case maxThreshold > 0 && balance >= maxThreshold:
		return StatusOverstock
	default:
		return StatusNormal
	}
}
