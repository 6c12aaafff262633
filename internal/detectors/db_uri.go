package detectors

import (
	"regexp"

	"github.com/leakscout/leakscout/internal/types"
)

var dbURIPatterns = []Pattern{
	{
		ID:       "mongodb_uri",
		Name:     "MongoDB Connection String",
		Severity: types.SevHigh,
		Re:       regexp.MustCompile(`(?i)mongodb(\+srv)?://[^\s]+`),
	},
	{
		ID:       "postgres_uri",
		Name:     "PostgreSQL Connection String",
		Severity: types.SevHigh,
		Re:       regexp.MustCompile(`(?i)postgres(ql)?://[^\s]+`),
	},
	{
		ID:       "mysql_uri",
		Name:     "MySQL Connection String",
		Severity: types.SevHigh,
		Re:       regexp.MustCompile(`(?i)mysql://[^\s]+`),
	},
}
