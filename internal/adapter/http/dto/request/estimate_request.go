package request

import "translation_desk/internal/usecase"

// EstimateRequest mirrors the pricing fields of the quote wizard.
type EstimateRequest struct {
	Service         string   `json:"service" binding:"required"`
	SourceLanguage  string   `json:"source_language"`
	TargetLanguages []string `json:"target_languages"`
	Urgency         string   `json:"urgency"`
	Certification   bool     `json:"certification"`
	WordCount       *int     `json:"word_count"`
	PageCount       *int     `json:"page_count"`
}

func (r EstimateRequest) ToInput() usecase.EstimateInput {
	urgency := r.Urgency
	if urgency == "" {
		urgency = "standard"
	}
	return usecase.EstimateInput{
		Service:         r.Service,
		SourceLanguage:  r.SourceLanguage,
		TargetLanguages: r.TargetLanguages,
		Urgency:         urgency,
		Certification:   r.Certification,
		WordCount:       r.WordCount,
		PageCount:       r.PageCount,
	}
}
