// Package decisions implements the decision-log domain for Mailward.
// It provides the document model produced by the classification pipeline,
// schema-tolerant field extraction across historical document shapes, and
// blob-backed document storage access.
package decisions

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// Decision values produced by the automated pipeline.
const (
	DecisionAllow      = "ALLOW"
	DecisionITReview   = "IT_REVIEW"
	DecisionQuarantine = "QUARANTINE"
)

// HITL status values carried in a document's hitl sub-object.
const (
	HitlStatusRequired = "required"
	HitlStatusResolved = "resolved"
)

// Document is one decision-log record. The pipeline has written several
// schema generations of these, so the document is held as raw JSON structure
// and read through tolerant accessors; unknown fields survive a
// read-modify-write untouched.
type Document map[string]any

// Location addresses a document in blob storage. An empty Bucket means the
// configured default container.
type Location struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// String looks up a nested string value, returning "" when any path segment
// is absent or the wrong shape.
func (d Document) String(path ...string) string {
	v, ok := d.lookup(path...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Number looks up a nested numeric value. JSON numbers decode as float64;
// the second return reports whether a number was present.
func (d Document) Number(path ...string) (float64, bool) {
	v, ok := d.lookup(path...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Bool looks up a nested boolean value, returning false when absent.
func (d Document) Bool(path ...string) bool {
	v, ok := d.lookup(path...)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Map looks up a nested object, returning nil when absent or not an object.
func (d Document) Map(path ...string) map[string]any {
	v, ok := d.lookup(path...)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

// Slice looks up a nested array, returning nil when absent or not an array.
func (d Document) Slice(path ...string) []any {
	v, ok := d.lookup(path...)
	if !ok {
		return nil
	}
	s, _ := v.([]any)
	return s
}

// Strings looks up a nested array of strings, skipping non-string elements.
func (d Document) Strings(path ...string) []string {
	raw := d.Slice(path...)
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// EnsureMap returns the object at the given top-level key, creating it when
// absent or malformed.
func (d Document) EnsureMap(key string) map[string]any {
	if m, ok := d[key].(map[string]any); ok {
		return m
	}
	m := make(map[string]any)
	d[key] = m
	return m
}

func (d Document) lookup(path ...string) (any, bool) {
	if d == nil || len(path) == 0 {
		return nil, false
	}

	var cur any = map[string]any(d)
	for _, seg := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}

	if cur == nil {
		return nil, false
	}
	return cur, true
}

// MessageID returns the document's message identifier.
func (d Document) MessageID() string {
	if id := d.String("compact", "message_id"); id != "" {
		return id
	}
	return d.String("sender_intel", "ids", "message_id")
}

// Decision returns the automated verdict (ALLOW, IT_REVIEW, or QUARANTINE).
func (d Document) Decision() string {
	return d.String("decision")
}

// Timestamp returns the document's creation timestamp string.
func (d Document) Timestamp() string {
	return d.String("timestamp")
}

// FromAddr returns the sender address, preferring the compact view.
func (d Document) FromAddr() string {
	if addr := d.String("compact", "from", "addr"); addr != "" {
		return addr
	}
	return d.String("sender_intel", "ids", "from_addr")
}

// FromDomain returns the sender domain, derived from the address when the
// intel ids omit it.
func (d Document) FromDomain() string {
	if dom := d.String("sender_intel", "ids", "from_domain"); dom != "" {
		return dom
	}
	addr := d.FromAddr()
	if at := strings.LastIndex(addr, "@"); at >= 0 && at < len(addr)-1 {
		return strings.ToLower(addr[at+1:])
	}
	return ""
}

// Recipient returns the compact to header.
func (d Document) Recipient() string {
	return d.String("compact", "to")
}

// Subject returns the compact subject line.
func (d Document) Subject() string {
	return d.String("compact", "subject")
}

// Classification returns the content classification label.
func (d Document) Classification() string {
	return d.String("summary", "classification")
}

// Confidence returns the classification confidence, nil when the summary
// carries no numeric confidence.
func (d Document) Confidence() *float64 {
	if n, ok := d.Number("summary", "confidence"); ok {
		return &n
	}
	return nil
}

// Risk returns the sender risk score.
func (d Document) Risk() float64 {
	n, _ := d.Number("summary", "sender_risk")
	return n
}

// RiskNotes returns the ordered sender risk notes.
func (d Document) RiskNotes() []string {
	return d.Strings("summary", "sender_risk_notes")
}

// HasPHI reports whether the summary flags protected health information.
func (d Document) HasPHI() bool {
	return d.Bool("summary", "has_phi")
}

// PHIEntities returns the number of PHI entities detected.
func (d Document) PHIEntities() int {
	n, _ := d.Number("phi", "entities_detected")
	return int(n)
}

// ElapsedMS returns the pipeline processing latency in milliseconds, or
// false when the document does not record one.
func (d Document) ElapsedMS() (float64, bool) {
	return d.Number("elapsed_ms")
}

// HitlStatus returns the review sub-state, preferring the decision agent's
// copy when present.
func (d Document) HitlStatus() string {
	if s := d.String("decision_agent", "hitl", "status"); s != "" {
		return s
	}
	return d.String("hitl", "status")
}

// HitlVerdict returns the human verdict recorded on the document.
func (d Document) HitlVerdict() string {
	if v := d.String("decision_agent", "hitl", "verdict"); v != "" {
		return v
	}
	return d.String("hitl", "verdict")
}

// HitlNotes returns the reviewer notes recorded on the document.
func (d Document) HitlNotes() string {
	if n := d.String("decision_agent", "hitl", "notes"); n != "" {
		return n
	}
	return d.String("hitl", "notes")
}

// UserReported reports whether an end user has flagged the message.
func (d Document) UserReported() bool {
	return d.Bool("user_reported")
}

// RunID derives a stable run identifier for a document stored at key:
// the key basename without its extension.
func RunID(key string) string {
	base := path.Base(key)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTime accepts the ISO-8601 variants the pipeline has written over its
// history. The second return is false for anything unparseable; callers skip
// those values rather than failing.
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayPrefix returns the date-partitioned key prefix for a UTC calendar day.
func DayPrefix(prefix string, day time.Time) string {
	day = day.UTC()
	return fmt.Sprintf("%s/%04d/%02d/%02d/", prefix, day.Year(), day.Month(), day.Day())
}
