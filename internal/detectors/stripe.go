package detectors

import (
	"regexp"

	"github.com/leakscout/leakscout/internal/types"
)

var stripePatterns = []Pattern{
	{
		ID:       "stripe_live_key",
		Name:     "Stripe API Key",
		Severity: types.SevHigh,
		Re:       regexp.MustCompile(`sk_live_[0-9a-zA-Z]{24}`),
	},
}
