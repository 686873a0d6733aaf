package llm

import (
	"regexp"
	"strings"
)

// Price is a model's list price in USD per million tokens.
type Price struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Estimate returns the USD cost of one batch of tokens.
func (p Price) Estimate(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*p.InputPerMTok + float64(outputTokens)*p.OutputPerMTok) / 1e6
}

// datedSuffix matches the release date providers append to model ids,
// as in claude-haiku-4-5-20251001 or gpt-4o-mini-2024-07-18.
var datedSuffix = regexp.MustCompile(`-(\d{8}|\d{4}-\d{2}-\d{2})$`)

// PriceFor looks up the price of the model id a provider reported. Router
// prefixes (anthropic/...) and release dates are ignored when the exact id
// is not listed.
func PriceFor(model string) (Price, bool) {
	candidates := []string{model}
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
		candidates = append(candidates, model)
	}
	candidates = append(candidates, datedSuffix.ReplaceAllString(model, ""))

	for _, id := range candidates {
		if p, ok := prices[id]; ok {
			return p, true
		}
	}
	return Price{}, false
}

// prices covers the models the providers here default to or alias.
var prices = map[string]Price{
	"claude-haiku-4-5":      {1, 5},
	"claude-sonnet-4":       {3, 15},
	"claude-sonnet-4-5":     {3, 15},
	"claude-opus-4-1":       {15, 75},
	"claude-3-5-haiku":      {0.8, 4},
	"claude-sonnet-4-0":     {3, 15},
	"gpt-4o":                {2.5, 10},
	"gpt-4o-mini":           {0.15, 0.6},
	"gpt-4.1":               {2, 8},
	"gpt-4.1-mini":          {0.4, 1.6},
	"gpt-4.1-nano":          {0.1, 0.4},
	"gpt-5":                 {1.25, 10},
	"gpt-5-mini":            {0.25, 2},
	"gpt-5-nano":            {0.05, 0.4},
	"o4-mini":               {1.1, 4.4},
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}
