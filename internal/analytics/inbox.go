package analytics

import (
	"context"
	"sort"
	"strings"

	"github.com/mailward/mailward/internal/decisions"
)

// InboxMessage is the recipient-facing projection of a delivered message.
type InboxMessage struct {
	RunID       string `json:"run_id"`
	Timestamp   string `json:"timestamp"`
	From        string `json:"from"`
	Subject     string `json:"subject"`
	Folder      string `json:"folder"`
	BodyPreview string `json:"body_preview,omitempty"`
}

// folderRules assigns a folder by subject keyword; first matching category
// wins, in this order.
var folderRules = []struct {
	folder   string
	keywords []string
}{
	{"Results", []string{"result", "lab", "test", "screening"}},
	{"Team Messages", []string{"team", "meeting", "schedule", "shift", "staff"}},
	{"Supplies", []string{"supply", "supplies", "order", "inventory", "shipment"}},
	{"Insurance", []string{"insurance", "claim", "billing", "coverage"}},
}

// Inbox scans the trailing window and returns the messages visible to a
// recipient: delivered by the pipeline and not later blocked, or explicitly
// allowed by a reviewer. Matching on address is a case-insensitive substring
// test against the document's to header.
func (s *service) Inbox(ctx context.Context, address string, days int) ([]InboxMessage, error) {
	if address == "" {
		return nil, ErrMissingAddress
	}
	if days <= 0 {
		days = 7
	}

	needle := strings.ToLower(address)
	from, to := s.window(days)

	messages := make([]InboxMessage, 0)

	_, err := s.scanWindow(ctx, from, to, func(key string, doc decisions.Document) error {
		if !strings.Contains(strings.ToLower(doc.Recipient()), needle) {
			return nil
		}
		if !visible(doc) {
			return nil
		}

		messages = append(messages, InboxMessage{
			RunID:       runIdentity(key, doc),
			Timestamp:   doc.Timestamp(),
			From:        doc.FromAddr(),
			Subject:     doc.Subject(),
			Folder:      folderFor(doc.Subject()),
			BodyPreview: decisions.BodyPreview(doc),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(messages, func(i, j int) bool {
		ti, iOK := decisions.ParseTime(messages[i].Timestamp)
		tj, jOK := decisions.ParseTime(messages[j].Timestamp)
		if iOK != jOK {
			return iOK
		}
		return ti.After(tj)
	})

	return messages, nil
}

// visible reports whether the recipient should see the message: allowed by
// the pipeline and never blocked by a human, or explicitly allowed by one.
func visible(doc decisions.Document) bool {
	verdict := doc.HitlVerdict()
	if verdict == "allow" {
		return true
	}
	return doc.Decision() == decisions.DecisionAllow && verdict != "block"
}

func folderFor(subject string) string {
	subject = strings.ToLower(subject)
	for _, rule := range folderRules {
		for _, kw := range rule.keywords {
			if strings.Contains(subject, kw) {
				return rule.folder
			}
		}
	}
	return "All"
}
