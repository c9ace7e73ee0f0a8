package request

// Prices arrive as decimal strings ("9.50") and are parsed into integer
// cents before they reach the use case layer.
type UpsertOrderRequest struct {
	Description    string  `json:"description" binding:"required"`
	PriceEstimated string  `json:"price_estimated" binding:"required"`
	Notes          *string `json:"notes,omitempty"`
}

func (r UpsertOrderRequest) GetNotes() *string {
	return trimmedPtr(r.Notes)
}

type FinalPriceRequest struct {
	Price string `json:"price" binding:"required"`
}
