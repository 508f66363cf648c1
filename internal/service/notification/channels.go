package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-volunteer/internal/domain"
	"campus-volunteer/internal/repository"
	"campus-volunteer/internal/service/email"
	"campus-volunteer/internal/service/live"
)

const DefaultEmailBatchSize = 50

type EmailOptions struct {
	AppName   string
	BaseURL   string
	BatchSize int
	Throttle  time.Duration
}

type emailChannel struct {
	mailer email.Mailer
	opts   EmailOptions
	logger *zap.Logger
}

// NewEmailChannel returns nil when mailer is nil, which disables the channel.
func NewEmailChannel(mailer email.Mailer, opts EmailOptions, logger *zap.Logger) Channel {
	if mailer == nil {
		return nil
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultEmailBatchSize
	}
	return &emailChannel{mailer: mailer, opts: opts, logger: logger}
}

func (c *emailChannel) Name() ChannelName { return ChannelEmail }

// Deliver sends in fixed-size batches. Sends within a batch run concurrently,
// staggered by the throttle, and the whole batch is joined before the next one
// starts.
func (c *emailChannel) Deliver(ctx context.Context, recipients []domain.User, payload Payload) []Outcome {
	outcomes := make([]Outcome, len(recipients))

	for start := 0; start < len(recipients); start += c.opts.BatchSize {
		end := start + c.opts.BatchSize
		if end > len(recipients) {
			end = len(recipients)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int, delay time.Duration) {
				defer wg.Done()
				outcomes[i] = Outcome{
					RecipientID: recipients[i].ID,
					Channel:     ChannelEmail,
					Err:         c.send(ctx, recipients[i], payload, delay),
				}
			}(i, time.Duration(i-start)*c.opts.Throttle)
		}
		wg.Wait()
	}

	return outcomes
}

func (c *emailChannel) send(ctx context.Context, to domain.User, payload Payload, delay time.Duration) error {
	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	msg, err := email.Render(to.Email, payload.Title, c.templateData(to, payload))
	if err != nil {
		return err
	}

	res := c.mailer.Send(ctx, msg)
	if !res.Success {
		err := res.Err
		if err == nil {
			err = errors.New("mailer reported failure")
		}
		c.logger.Warn("email delivery failed",
			zap.String("recipient_id", to.ID.String()),
			zap.String("type", string(payload.Type)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (c *emailChannel) templateData(to domain.User, payload Payload) email.TemplateData {
	data := email.TemplateData{
		AppName: c.opts.AppName,
		Title:   payload.Title,
		Name:    to.FullName,
		Message: payload.Message,
		Color:   colorFor(payload.Type),
	}
	for _, d := range payload.Details {
		data.Details = append(data.Details, email.Detail{Label: d.Label, Value: d.Value})
	}
	if payload.Link != "" {
		data.LinkURL = c.opts.BaseURL + payload.Link
		data.LinkLabel = "Open in " + c.opts.AppName
	}
	return data
}

func colorFor(t domain.NotificationType) string {
	switch t {
	case domain.NotifProblemRejected, domain.NotifRegistrationRejected:
		return "#dc2626"
	case domain.NotifProblemApproved, domain.NotifProblemResolved, domain.NotifRegistrationApproved, domain.NotifAttendanceMarked:
		return "#16a34a"
	default:
		return "#2563eb"
	}
}

type liveChannel struct {
	live   live.Channel
	logger *zap.Logger
}

// NewLiveChannel returns nil when transport is nil, which disables the channel.
func NewLiveChannel(transport live.Channel, logger *zap.Logger) Channel {
	if transport == nil {
		return nil
	}
	return &liveChannel{live: transport, logger: logger}
}

func (c *liveChannel) Name() ChannelName { return ChannelLive }

// Deliver emits one event per recipient plus a single broadcast for clients
// that have not joined their private channel yet.
func (c *liveChannel) Deliver(ctx context.Context, recipients []domain.User, payload Payload) []Outcome {
	event := livePayload(payload)
	outcomes := make([]Outcome, 0, len(recipients))

	for _, u := range recipients {
		err := c.live.EmitToRecipient(ctx, u.ID, string(payload.Type), event)
		if err != nil {
			c.logger.Warn("live emit failed",
				zap.String("recipient_id", u.ID.String()),
				zap.Error(err),
			)
		}
		outcomes = append(outcomes, Outcome{RecipientID: u.ID, Channel: ChannelLive, Err: err})
	}

	if err := c.live.Broadcast(ctx, string(payload.Type), event); err != nil {
		c.logger.Warn("live broadcast failed", zap.String("type", string(payload.Type)), zap.Error(err))
	}
	return outcomes
}

type liveEvent struct {
	Type    domain.NotificationType `json:"type"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
	Data    map[string]string       `json:"data,omitempty"`
}

func livePayload(p Payload) liveEvent {
	return liveEvent{Type: p.Type, Title: p.Title, Message: p.Message, Data: p.Data}
}

type inboxChannel struct {
	repo   repository.NotificationRepository
	logger *zap.Logger
}

func NewInboxChannel(repo repository.NotificationRepository, logger *zap.Logger) Channel {
	return &inboxChannel{repo: repo, logger: logger}
}

func (c *inboxChannel) Name() ChannelName { return ChannelInbox }

// Deliver creates one record per recipient concurrently and waits for all of
// them, whatever their individual outcome.
func (c *inboxChannel) Deliver(ctx context.Context, recipients []domain.User, payload Payload) []Outcome {
	var data json.RawMessage
	if len(payload.Data) > 0 {
		data, _ = json.Marshal(payload.Data)
	}

	outcomes := make([]Outcome, len(recipients))
	var wg sync.WaitGroup
	for i := range recipients {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			notif := &domain.Notification{
				ID:      uuid.New(),
				UserID:  recipients[i].ID,
				Type:    payload.Type,
				Title:   payload.Title,
				Message: payload.Message,
				Data:    data,
			}
			err := c.repo.Create(ctx, notif)
			if err != nil {
				c.logger.Error("failed to create notification",
					zap.String("recipient_id", recipients[i].ID.String()),
					zap.Error(err),
				)
			}
			outcomes[i] = Outcome{RecipientID: recipients[i].ID, Channel: ChannelInbox, Err: err}
		}(i)
	}
	wg.Wait()
	return outcomes
}
