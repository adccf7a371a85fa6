package broadcast

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sandhyasneha/it-project-planner/internal/websocket"
)

// Dialer places one outbound call and returns the provider's call ID.
type Dialer interface {
	PlaceCall(to, audioURL string) (string, error)
}

// CampaignReport extends the batch report with the campaign run ID and
// the provider call IDs of successful dials.
type CampaignReport struct {
	RunID    string            `json:"run_id"`
	CallSIDs map[string]string `json:"call_sids"`
	Failed   []DeliveryError   `json:"failed"`
}

// Campaign dials every number in the list, instructing playback of the
// hosted audio URL. Same contract as the mail broadcast: per-call
// failures are reported and never abort the batch.
type Campaign struct {
	dialer Dialer
	hub    *websocket.Hub
	dedup  bool
	logger *slog.Logger
}

func NewCampaign(dialer Dialer, hub *websocket.Hub, dedup bool, logger *slog.Logger) *Campaign {
	return &Campaign{dialer: dialer, hub: hub, dedup: dedup, logger: logger}
}

// Run places one call per number and returns the per-call report.
func (c *Campaign) Run(numbers []string, audioURL string) *CampaignReport {
	report := &CampaignReport{
		RunID:    uuid.New().String(),
		CallSIDs: make(map[string]string),
	}

	seen := make(map[string]struct{}, len(numbers))
	if c.hub != nil {
		c.hub.Broadcast(websocket.StatusEvent("call", fmt.Sprintf("campaign %s started: %d numbers", report.RunID, len(numbers))))
	}

	for _, number := range numbers {
		if c.dedup {
			if _, dup := seen[number]; dup {
				continue
			}
			seen[number] = struct{}{}
		}

		sid, err := c.dialer.PlaceCall(number, audioURL)
		if c.hub != nil {
			c.hub.Broadcast(websocket.DeliveryEvent("call", number, err))
		}
		if err != nil {
			c.logger.Warn("call failed", "number", number, "error", err)
			report.Failed = append(report.Failed, DeliveryError{Recipient: number, Err: err.Error()})
			continue
		}
		c.logger.Info("call placed", "number", number, "sid", sid)
		report.CallSIDs[number] = sid
	}

	c.logger.Info("campaign finished", "run_id", report.RunID, "placed", len(report.CallSIDs), "failed", len(report.Failed))
	return report
}
