package detectors

import (
	"regexp"

	"github.com/leakscout/leakscout/internal/types"
)

var googlePatterns = []Pattern{
	{
		ID:       "google_api_key",
		Name:     "Google API Key",
		Severity: types.SevHigh,
		Re:       regexp.MustCompile(`AIza[0-9A-Za-z_-]{35}`),
	},
}
