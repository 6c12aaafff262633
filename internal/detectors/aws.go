package detectors

import (
	"regexp"

	"github.com/leakscout/leakscout/internal/types"
)

var awsPatterns = []Pattern{
	{
		ID:       "aws_access_key",
		Name:     "AWS Access Key ID",
		Severity: types.SevHigh,
		Re:       regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	},
	{
		// "aws", up to 20 arbitrary characters, then a quoted 40-char secret.
		ID:       "aws_secret_key",
		Name:     "AWS Secret Key",
		Severity: types.SevHigh,
		Re:       regexp.MustCompile(`(?i)aws(.{0,20})?['"][0-9a-zA-Z/+]{40}['"]`),
	},
}
