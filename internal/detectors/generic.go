package detectors

import (
	"regexp"

	"github.com/leakscout/leakscout/internal/types"
)

var apiKeyPatterns = []Pattern{
	{
		ID:       "generic_api_key",
		Name:     "Generic API Key",
		Severity: types.SevHigh,
		Re:       regexp.MustCompile(`(?i)api[_-]?key['"]?\s*[:=]\s*['"]([0-9a-zA-Z\-_]{20,})['"]?`),
	},
}

var passwordPatterns = []Pattern{
	{
		ID:       "generic_password",
		Name:     "Generic Password",
		Severity: types.SevMed,
		Re:       regexp.MustCompile(`(?i)password['"]?\s*[:=]\s*['"]([^'"]{8,})['"]?`),
	},
}

var jwtPatterns = []Pattern{
	{
		ID:       "jwt",
		Name:     "JSON Web Token",
		Severity: types.SevLow,
		Re:       regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	},
}
