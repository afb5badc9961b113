package decisions_test

import (
	"testing"
	"time"

	"github.com/mailward/mailward/internal/decisions"
)

func sampleDoc() decisions.Document {
	return decisions.Document{
		"timestamp": "2026-08-14T09:30:00Z",
		"decision":  "QUARANTINE",
		"compact": map[string]any{
			"message_id": "m-100",
			"from":       map[string]any{"addr": "alice@vendor.example"},
			"to":         "dr.smith@clinic.example",
			"subject":    "Lab Results Attached",
		},
		"summary": map[string]any{
			"classification":    "phishing",
			"confidence":        0.92,
			"sender_risk":       0.8,
			"sender_risk_notes": []any{"new domain", "spoofed display name"},
			"has_phi":           true,
		},
		"phi":        map[string]any{"entities_detected": 3.0},
		"elapsed_ms": 850.0,
	}
}

func TestDocumentAccessors(t *testing.T) {
	doc := sampleDoc()

	if got := doc.MessageID(); got != "m-100" {
		t.Errorf("MessageID() = %q", got)
	}
	if got := doc.Decision(); got != "QUARANTINE" {
		t.Errorf("Decision() = %q", got)
	}
	if got := doc.FromAddr(); got != "alice@vendor.example" {
		t.Errorf("FromAddr() = %q", got)
	}
	if got := doc.FromDomain(); got != "vendor.example" {
		t.Errorf("FromDomain() = %q", got)
	}
	if got := doc.Recipient(); got != "dr.smith@clinic.example" {
		t.Errorf("Recipient() = %q", got)
	}
	if got := doc.Subject(); got != "Lab Results Attached" {
		t.Errorf("Subject() = %q", got)
	}
	if got := doc.Classification(); got != "phishing" {
		t.Errorf("Classification() = %q", got)
	}
	if conf := doc.Confidence(); conf == nil || *conf != 0.92 {
		t.Errorf("Confidence() = %v", conf)
	}
	if got := doc.Risk(); got != 0.8 {
		t.Errorf("Risk() = %v", got)
	}
	if notes := doc.RiskNotes(); len(notes) != 2 || notes[0] != "new domain" {
		t.Errorf("RiskNotes() = %v", notes)
	}
	if !doc.HasPHI() {
		t.Error("HasPHI() = false")
	}
	if got := doc.PHIEntities(); got != 3 {
		t.Errorf("PHIEntities() = %d", got)
	}
	if ms, ok := doc.ElapsedMS(); !ok || ms != 850 {
		t.Errorf("ElapsedMS() = %v, %v", ms, ok)
	}
}

func TestDocumentAccessorsToleratePartialShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  decisions.Document
	}{
		{name: "nil document", doc: nil},
		{name: "empty document", doc: decisions.Document{}},
		{
			name: "wrong shapes",
			doc: decisions.Document{
				"compact": "not a map",
				"summary": []any{"not", "a", "map"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.MessageID(); got != "" {
				t.Errorf("MessageID() = %q", got)
			}
			if got := tt.doc.Risk(); got != 0 {
				t.Errorf("Risk() = %v", got)
			}
			if conf := tt.doc.Confidence(); conf != nil {
				t.Errorf("Confidence() = %v", conf)
			}
			if tt.doc.HasPHI() {
				t.Error("HasPHI() = true")
			}
		})
	}
}

func TestDocumentHitlPrefersDecisionAgent(t *testing.T) {
	doc := decisions.Document{
		"hitl": map[string]any{"status": "required", "verdict": ""},
		"decision_agent": map[string]any{
			"hitl": map[string]any{"status": "resolved", "verdict": "allow"},
		},
	}

	if got := doc.HitlStatus(); got != "resolved" {
		t.Errorf("HitlStatus() = %q, want resolved", got)
	}
	if got := doc.HitlVerdict(); got != "allow" {
		t.Errorf("HitlVerdict() = %q, want allow", got)
	}
}

func TestDocumentFromDomainDerived(t *testing.T) {
	doc := decisions.Document{
		"compact": map[string]any{
			"from": map[string]any{"addr": "Bob@Example.COM"},
		},
	}

	if got := doc.FromDomain(); got != "example.com" {
		t.Errorf("FromDomain() = %q, want example.com", got)
	}
}

func TestEnsureMap(t *testing.T) {
	doc := decisions.Document{"hitl": "corrupted"}

	m := doc.EnsureMap("hitl")
	m["status"] = "required"

	if got := doc.String("hitl", "status"); got != "required" {
		t.Errorf("hitl.status = %q after EnsureMap", got)
	}
}

func TestRunID(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"runs/2026/08/14/m-100_093000.json", "m-100_093000"},
		{"m-100.json", "m-100"},
		{"no-extension", "no-extension"},
	}

	for _, tt := range tests {
		if got := decisions.RunID(tt.key); got != tt.want {
			t.Errorf("RunID(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestDayPrefix(t *testing.T) {
	day := time.Date(2026, 8, 3, 23, 45, 0, 0, time.UTC)
	want := "runs/2026/08/03/"

	if got := decisions.DayPrefix("runs", day); got != want {
		t.Errorf("DayPrefix() = %q, want %q", got, want)
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
	}{
		{"rfc3339", "2026-08-14T09:30:00Z", true},
		{"rfc3339 nano", "2026-08-14T09:30:00.123456Z", true},
		{"no zone", "2026-08-14T09:30:00", true},
		{"space separator", "2026-08-14 09:30:00", true},
		{"garbage", "yesterday", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := decisions.ParseTime(tt.input); ok != tt.ok {
				t.Errorf("ParseTime(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
		})
	}
}
