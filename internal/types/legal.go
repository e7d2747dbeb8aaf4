package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// LegalDoc is one stored legal source (or a chunk of one).
type LegalDoc struct {
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Source       string    `json:"source"` // legifrance, cour_cassation, conseil_etat, service_public
	Date         time.Time `json:"date"`
	Type         string    `json:"type"` // code, decret, decision, fiche_pratique
	Jurisdiction string    `json:"jurisdiction,omitempty"`
	Text         string    `json:"text"`
}

// ScoredDoc is a search hit with its raw score and freshness-weighted relevance.
type ScoredDoc struct {
	Doc       LegalDoc
	Score     float64
	Relevance float64
}

// LegalQuery is the input of a legal search.
type LegalQuery struct {
	Question    string `json:"question" validate:"required,max=500"`
	Limit       int    `json:"limit,omitempty" validate:"omitempty,min=1,max=20"`
	SinceMonths int    `json:"since_months,omitempty" validate:"omitempty,min=1,max=36"`
}

// LegalCitation is a formatted reference to a source used in an answer.
type LegalCitation struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	Date   string `json:"date"` // DD/MM/YYYY
	URL    string `json:"url"`
	Type   string `json:"type"`
}

// LegalAnswer is the response of a legal search.
type LegalAnswer struct {
	Answer     string          `json:"answer"`
	Citations  []LegalCitation `json:"citations"`
	Disclaimer string          `json:"disclaimer"`
}

// Validate validates the LegalQuery using the validator.
func (r *LegalQuery) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
