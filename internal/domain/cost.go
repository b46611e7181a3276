package domain

import "math"

// CostDetails is the estimated price of a generation job.
type CostDetails struct {
	Model           string  `json:"model"`
	Size            string  `json:"size"`
	Seconds         int     `json:"seconds"`
	PricePerSecond  float64 `json:"price_per_second_usd"`
	EstimatedCostUS float64 `json:"estimated_cost_usd"`
}

// Per-second prices in USD keyed by model, then by size. The "*" entry applies to any other size.
var videoPricing = map[string]map[string]float64{
	"sora-2": {
		"*": 0.10,
	},
	"sora-2-pro": {
		"1024x1792": 0.50,
		"1792x1024": 0.50,
		"*":         0.30,
	},
}

// defaultPricePerSecond applies to models missing from videoPricing.
const defaultPricePerSecond = 0.10

// CalculateVideoCost estimates the job price. Unknown models are billed at the default rate.
// It returns nil for non-positive durations.
func CalculateVideoCost(model, size string, seconds int) *CostDetails {
	if seconds <= 0 {
		return nil
	}
	price := defaultPricePerSecond
	if sizes, ok := videoPricing[model]; ok {
		if p, ok := sizes[size]; ok {
			price = p
		} else {
			price = sizes["*"]
		}
	}
	total := math.Round(price*float64(seconds)*100) / 100
	return &CostDetails{
		Model:           model,
		Size:            size,
		Seconds:         seconds,
		PricePerSecond:  price,
		EstimatedCostUS: total,
	}
}
