package simpro

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"jobcard-automation/internal/gateway"
	"jobcard-automation/internal/model"
	"jobcard-automation/pkg/fallback"
)

var errNoCustomFields = errors.New("no custom fields in response")

func (g *implGateway) GetQuote(ctx context.Context, quoteID string) (model.QuoteAutomationView, error) {
	if quoteID == "" {
		return model.QuoteAutomationView{}, gateway.ErrInvalidQuoteID
	}

	base := "/quotes/" + url.PathEscape(quoteID)
	header, err := g.client.Get(ctx, base, nil)
	if err != nil {
		return model.QuoteAutomationView{}, err
	}
	body := header.JSON()

	view := model.QuoteAutomationView{
		QuoteID:      firstString(body, quoteIDPaths...),
		QuoteNumber:  firstString(body, quoteNumberPaths...),
		CustomerName: firstString(body, quoteCustomerPaths...),
	}
	if view.QuoteID == "" {
		view.QuoteID = quoteID
	}

	fromEndpoint := func(path string) fallback.Candidate[[]model.CustomField] {
		return fallback.Candidate[[]model.CustomField]{
			Name: path,
			Try: func(ctx context.Context) ([]model.CustomField, error) {
				resp, err := g.client.Get(ctx, path, nil)
				if err != nil {
					return nil, err
				}
				fields := normalizeCustomFields(asArray(resp.JSON()))
				if len(fields) == 0 {
					return nil, errNoCustomFields
				}
				return fields, nil
			},
		}
	}

	fields, idx, err := fallback.TryInOrder(ctx, "get quote custom fields", []fallback.Candidate[[]model.CustomField]{
		fromEndpoint(base + "/customFields/"),
		fromEndpoint(base + "/customfields/"),
		{
			Name: "embedded",
			Try: func(context.Context) ([]model.CustomField, error) {
				return normalizeCustomFields(firstArray(body, quoteFieldsPaths...)), nil
			},
		},
	})
	if err != nil {
		return model.QuoteAutomationView{}, fmt.Errorf("quote %s: %w", quoteID, err)
	}

	g.l.Debugf(ctx, "internal.gateway.simpro.GetQuote: quote=%s fields=%d source=%d", quoteID, len(fields), idx)
	view.CustomFields = fields
	return view, nil
}

// normalizeCustomFields accepts {ID,Name,Value}, {CustomField:{ID,Name},Value}
// and their camelCase variants. Entries without an id or name are dropped.
func normalizeCustomFields(items []gjson.Result) []model.CustomField {
	fields := make([]model.CustomField, 0, len(items))
	for _, item := range items {
		f := model.CustomField{
			ID:    firstString(item, fieldIDPaths...),
			Name:  firstString(item, fieldNamePaths...),
			Value: firstString(item, fieldValuePaths...),
		}
		if f.ID == "" && f.Name == "" {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}
