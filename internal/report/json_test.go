package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leakscout/leakscout/internal/types"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSON(&buf, JSONReport{
		Repository:   "acme/widgets@main",
		Findings:     []types.Finding{{Path: "a", Line: 1, Match: "m", Type: "T", Detector: "d", Severity: types.SevHigh}},
		FilesScanned: 3,
		FilesSkipped: 2,
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "acme/widgets@main", got["repository"])
	assert.Equal(t, []any{}, got["warnings"])
	assert.Equal(t, 2.0, got["files_skipped"])
	findings := got["findings"].([]any)
	require.Len(t, findings, 1)
	f := findings[0].(map[string]any)
	assert.Equal(t, "a", f["file"])
	assert.Equal(t, "high", f["severity"])
	assert.NotEmpty(t, f["fingerprint"])
}

func TestWriteJSON_EmptyArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, JSONReport{}))
	assert.Contains(t, buf.String(), `"findings": []`)
}
