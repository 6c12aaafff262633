package detectors

import (
	"regexp"

	"github.com/leakscout/leakscout/internal/types"
)

var githubPatterns = []Pattern{
	{
		ID:       "github_token",
		Name:     "GitHub Token",
		Severity: types.SevHigh,
		Re:       regexp.MustCompile(`gh[pousr]_[0-9a-zA-Z]{36}`),
	},
}

var gitlabPatterns = []Pattern{
	{
		ID:       "gitlab_token",
		Name:     "GitLab Token",
		Severity: types.SevHigh,
		Re:       regexp.MustCompile(`glpat-[0-9A-Za-z_-]{20}`),
	},
}
