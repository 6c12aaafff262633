package detectors

import (
	"regexp"

	"github.com/leakscout/leakscout/internal/types"
)

var slackPatterns = []Pattern{
	{
		ID:       "slack_token",
		Name:     "Slack Token",
		Severity: types.SevHigh,
		Re:       regexp.MustCompile(`xox[baprs]-[0-9a-zA-Z\-]+`),
	},
}

var slackWebhookPatterns = []Pattern{
	{
		ID:       "slack_webhook",
		Name:     "Slack Webhook URL",
		Severity: types.SevMed,
		Re:       regexp.MustCompile(`https://hooks\.slack\.com/services/T[A-Za-z0-9_]{8,}/B[A-Za-z0-9_]{8,}/[A-Za-z0-9_]{24}`),
	},
}
