package request

type CreateQuickRunRequest struct {
	Destination  string  `json:"destination" binding:"required"`
	DelayMinutes int     `json:"delay_minutes" binding:"required,gt=0"`
	Note         *string `json:"note,omitempty"`
}

func (r CreateQuickRunRequest) GetNote() *string {
	return trimmedPtr(r.Note)
}

type UpsertQuickRunRequestRequest struct {
	Description    string  `json:"description" binding:"required"`
	PriceEstimated *string `json:"price_estimated,omitempty"`
}

type QuickRunDelegateRequest struct {
	ToUserID string `json:"to_user_id" binding:"required,uuid"`
}

type QuickRunFinalPriceRequest struct {
	ParticipantUserID string `json:"participant_user_id" binding:"required,uuid"`
	Price             string `json:"price" binding:"required"`
}
