package model

// CustomField is a normalized Simpro custom field. ID or Name is always set.
type CustomField struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// QuoteAutomationView is the subset of a quote the automation reads.
type QuoteAutomationView struct {
	QuoteID      string        `json:"quote_id"`
	QuoteNumber  string        `json:"quote_number,omitempty"`
	CustomerName string        `json:"customer_name,omitempty"`
	CustomFields []CustomField `json:"custom_fields"`
}

// DisplayNumber is the quote number shown to staff, falling back to the id.
func (q QuoteAutomationView) DisplayNumber() string {
	if q.QuoteNumber != "" {
		return q.QuoteNumber
	}
	return q.QuoteID
}
