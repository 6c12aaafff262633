package detectors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripeLiveKey(t *testing.T) {
	key := "sk_live_" + "0123456789abcdefABCDEFGH"
	assert.Equal(t, []string{key}, matches(t, "stripe_live_key", "STRIPE="+key))
	assert.Empty(t, matches(t, "stripe_live_key", "sk_test_0123456789abcdefABCDEFGH"))
}
