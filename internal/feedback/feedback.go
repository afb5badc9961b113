// Package feedback implements the append-only sender feedback ledger. Rows
// are learning signals consumed by the external recommendation generator;
// this service only ever writes them.
package feedback

import (
	"context"
	"strings"
	"time"
)

// Source tags for ledger rows.
const (
	SourceVerdict  = "verdict"
	SourceFeedback = "feedback"
)

// Trust tiers derived from the verdict.
const (
	TierTrusted = "trusted"
	TierBlocked = "blocked"
)

// Entry is one learning signal to record. RunID, Verdict, and FromDomain (or
// FromAddr to derive it from) are expected; everything else is optional
// context.
type Entry struct {
	RunID      string
	Verdict    string
	Actor      string
	Notes      string
	FromAddr   string
	FromDomain string
	Source     string
	LogBucket  string
	LogKey     string
}

// Recorder appends entries to the ledger.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// TrustTier maps a verdict to its ledger trust tier: allow is trusted,
// anything else is blocked.
func TrustTier(verdict string) string {
	if verdict == "allow" {
		return TierTrusted
	}
	return TierBlocked
}

// DomainOf extracts the lowercase domain from an address, returning "" when
// the address carries none.
func DomainOf(addr string) string {
	if at := strings.LastIndex(addr, "@"); at >= 0 && at < len(addr)-1 {
		return strings.ToLower(addr[at+1:])
	}
	return ""
}

func (e *Entry) normalize(now time.Time) (pk, sk, ts string) {
	if e.Source == "" {
		e.Source = SourceVerdict
	}
	if e.FromDomain == "" {
		e.FromDomain = DomainOf(e.FromAddr)
	}
	if e.FromDomain == "" {
		e.FromDomain = "unknown"
	}

	ts = now.UTC().Format(time.RFC3339)
	pk = "domain#" + e.FromDomain
	sk = e.Source + "#" + ts
	return pk, sk, ts
}
