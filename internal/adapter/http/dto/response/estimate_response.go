package response

import "translation_desk/internal/domain/pricing"

// EstimateResponse carries a null estimate when the request had no volume.
type EstimateResponse struct {
	Estimate *pricing.Breakdown `json:"estimate"`
}

func FromEstimate(b *pricing.Breakdown) EstimateResponse {
	return EstimateResponse{Estimate: b}
}
