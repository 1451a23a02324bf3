package openai

// ModelPricing is per-token pricing in USD per million tokens
type ModelPricing struct {
	PromptPrice     float64
	CompletionPrice float64
}

var modelPricing = map[string]ModelPricing{
	"gpt-4o": {
		PromptPrice:     2.50,
		CompletionPrice: 10.00,
	},
	"gpt-4o-mini": {
		PromptPrice:     0.15,
		CompletionPrice: 0.60,
	},
	"gpt-4-turbo": {
		PromptPrice:     10.00,
		CompletionPrice: 30.00,
	},
	"gpt-3.5-turbo": {
		PromptPrice:     0.50,
		CompletionPrice: 1.50,
	},
}

// DefaultPricingFallback is charged per request when model pricing is
// unknown, as a conservative budget estimate
const DefaultPricingFallback = 0.01

// CalculateCost computes the USD cost of one API call from token usage
func CalculateCost(model string, promptTokens, completionTokens int) float64 {
	pricing, found := modelPricing[model]
	if !found {
		return DefaultPricingFallback
	}
	promptCost := (float64(promptTokens) / 1_000_000.0) * pricing.PromptPrice
	completionCost := (float64(completionTokens) / 1_000_000.0) * pricing.CompletionPrice
	return promptCost + completionCost
}

// GetPricing returns pricing for a model, if known
func GetPricing(model string) (ModelPricing, bool) {
	pricing, found := modelPricing[model]
	return pricing, found
}
