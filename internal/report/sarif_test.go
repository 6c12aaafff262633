package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leakscout/leakscout/internal/detectors"
	"github.com/leakscout/leakscout/internal/types"
)

func TestWriteSARIF_RulesAndResults(t *testing.T) {
	findings := []types.Finding{
		{Path: "a/b.txt", Line: 3, Match: "m", Type: "GitHub Token", Detector: "github_token", Severity: types.SevHigh},
		{Path: "c.txt", Line: 1, Match: "x", Type: "Custom", Detector: "custom_rule", Severity: types.SevLow},
	}
	var buf bytes.Buffer
	err := WriteSARIF(&buf, findings, SARIFOptions{
		Version:  "1.2.3",
		Catalog:  detectors.Default(),
		Warnings: []string{"failed to fetch or scan file z: boom"},
	})
	if err != nil {
		t.Fatalf("WriteSARIF: %v", err)
	}
	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID              string            `json:"ruleId"`
				RuleIndex           int               `json:"ruleIndex"`
				Level               string            `json:"level"`
				PartialFingerprints map[string]string `json:"partialFingerprints"`
			} `json:"results"`
			Invocations []struct {
				Notifications []struct {
					Message struct {
						Text string `json:"text"`
					} `json:"message"`
				} `json:"toolExecutionNotifications"`
			} `json:"invocations"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v; body=%s", err, buf.String())
	}
	if doc.Version != "2.1.0" || len(doc.Runs) != 1 {
		t.Fatalf("unexpected document header: %+v", doc)
	}
	run := doc.Runs[0]
	if run.Tool.Driver.Version != "1.2.3" {
		t.Fatalf("expected driver version, got %q", run.Tool.Driver.Version)
	}
	if len(run.Tool.Driver.Rules) != detectors.Default().Len()+1 {
		t.Fatalf("expected catalog rules plus one synthesised rule, got %d", len(run.Tool.Driver.Rules))
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	for _, r := range run.Results {
		if run.Tool.Driver.Rules[r.RuleIndex].ID != r.RuleID {
			t.Fatalf("ruleIndex %d does not point at %s", r.RuleIndex, r.RuleID)
		}
		if r.PartialFingerprints["leakscout/v1"] == "" {
			t.Fatalf("expected partial fingerprint on %s", r.RuleID)
		}
	}
	if run.Results[0].Level != "error" || run.Results[1].Level != "note" {
		t.Fatalf("unexpected levels: %+v", run.Results)
	}
	if len(run.Invocations) != 1 || len(run.Invocations[0].Notifications) != 1 {
		t.Fatalf("expected warning notification, got %+v", run.Invocations)
	}
}

func TestWriteSARIF_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSARIF(&buf, nil, SARIFOptions{}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"results": []`)) {
		t.Fatalf("expected empty results array, got %s", buf.String())
	}
}
