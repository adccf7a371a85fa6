package broadcast

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sandhyasneha/it-project-planner/internal/store"
	"github.com/sandhyasneha/it-project-planner/internal/websocket"
)

const (
	reminderSubject = "Project plan reminder"
	reminderBody    = "This is your weekly reminder to review and update your IT project plans."
)

// ErrNotScheduled indicates the broadcast was requested outside the
// configured weekday window.
var ErrNotScheduled = errors.New("reminder broadcast is not scheduled for today")

// Sender delivers one message to one recipient.
type Sender interface {
	Send(to, subject, body string) error
}

// DeliveryError records one failed recipient in a batch.
type DeliveryError struct {
	Recipient string `json:"recipient"`
	Err       string `json:"error"`
}

// Report summarizes a broadcast batch: who got the message and who did not.
type Report struct {
	Sent   []string        `json:"sent"`
	Failed []DeliveryError `json:"failed"`
}

// Options make the broadcast's resilience choices explicit rather than
// implicit absence: recipient de-duplication and the weekday gate.
type Options struct {
	// Weekday gates Run to one day of the week (e.g. "Friday"). Empty
	// allows any day.
	Weekday string
	Dedup   bool
}

// Reminder iterates all registered accounts and sends one plain-text mail
// per account. Delivery is at-least-effort: per-recipient failures are
// reported individually and never abort the batch.
type Reminder struct {
	accounts *store.AccountStore
	sender   Sender
	hub      *websocket.Hub
	opts     Options
	logger   *slog.Logger

	now func() time.Time // overridable for tests
}

func NewReminder(accounts *store.AccountStore, sender Sender, hub *websocket.Hub, opts Options, logger *slog.Logger) *Reminder {
	return &Reminder{
		accounts: accounts,
		sender:   sender,
		hub:      hub,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes the broadcast and returns the per-recipient report.
func (r *Reminder) Run() (*Report, error) {
	if r.opts.Weekday != "" {
		today := r.now().Weekday().String()
		if !strings.EqualFold(today, r.opts.Weekday) {
			return nil, fmt.Errorf("%w (runs on %s)", ErrNotScheduled, r.opts.Weekday)
		}
	}

	accounts, err := r.accounts.List()
	if err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}

	recipients := make([]string, 0, len(accounts))
	seen := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		if r.opts.Dedup {
			if _, dup := seen[a.Email]; dup {
				continue
			}
			seen[a.Email] = struct{}{}
		}
		recipients = append(recipients, a.Email)
	}

	if r.hub != nil {
		r.hub.Broadcast(websocket.StatusEvent("mail", fmt.Sprintf("reminder batch started: %d recipients", len(recipients))))
	}

	report := &Report{}
	for _, to := range recipients {
		err := r.sender.Send(to, reminderSubject, reminderBody)
		if r.hub != nil {
			r.hub.Broadcast(websocket.DeliveryEvent("mail", to, err))
		}
		if err != nil {
			r.logger.Warn("reminder delivery failed", "recipient", to, "error", err)
			report.Failed = append(report.Failed, DeliveryError{Recipient: to, Err: err.Error()})
			continue
		}
		report.Sent = append(report.Sent, to)
	}

	r.logger.Info("reminder batch finished", "sent", len(report.Sent), "failed", len(report.Failed))
	return report, nil
}
