package model

// SearchIntent is the structured interpretation of a free-text query.
// It lives for one request only.
type SearchIntent struct {
	Category      *string  `json:"category"`
	MinPrice      *float64 `json:"minPrice"`
	MaxPrice      *float64 `json:"maxPrice"`
	Keywords      []string `json:"keywords"`
	SemanticQuery string   `json:"semanticQuery"`
	Explanation   string   `json:"explanation"`
}

// IntentSummary is the reduced intent returned to search clients
type IntentSummary struct {
	Category    *string `json:"category"`
	Explanation string  `json:"explanation"`
	Confidence  float64 `json:"confidence"`
}

// IntentConfidence is reported for every intent. It is not a measured value.
const IntentConfidence = 0.95

// Summary reduces the intent to its client-facing fields.
func (i *SearchIntent) Summary() *IntentSummary {
	return &IntentSummary{
		Category:    i.Category,
		Explanation: i.Explanation,
		Confidence:  IntentConfidence,
	}
}
