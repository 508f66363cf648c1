package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-volunteer/internal/domain"
)

type ChannelName string

const (
	ChannelEmail ChannelName = "email"
	ChannelLive  ChannelName = "live"
	ChannelInbox ChannelName = "inbox"
)

// Payload is one logical notification addressed to many recipients.
type Payload struct {
	Type    domain.NotificationType
	Title   string
	Message string
	Data    map[string]string
	// Details and Link only appear in the email body.
	Details []Detail
	Link    string
}

type Detail struct {
	Label string
	Value string
}

// Outcome is the delivery result for one recipient on one channel.
type Outcome struct {
	RecipientID uuid.UUID
	Channel     ChannelName
	Err         error
}

func (o Outcome) Success() bool {
	return o.Err == nil
}

// Channel delivers a payload to every recipient and reports one outcome per
// recipient. Implementations must not return early on a single failure.
type Channel interface {
	Name() ChannelName
	Deliver(ctx context.Context, recipients []domain.User, payload Payload) []Outcome
}

// Result aggregates the outcomes of every channel that ran.
type Result struct {
	Recipients int
	Outcomes   []Outcome
}

func (r Result) Successes(channel ChannelName) []Outcome {
	return r.filter(channel, true)
}

func (r Result) Failures(channel ChannelName) []Outcome {
	return r.filter(channel, false)
}

// Errors returns every failed outcome as a DeliveryError.
func (r Result) Errors() []*domain.DeliveryError {
	var errs []*domain.DeliveryError
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, &domain.DeliveryError{Channel: string(o.Channel), RecipientID: o.RecipientID, Err: o.Err})
		}
	}
	return errs
}

func (r Result) filter(channel ChannelName, success bool) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Channel == channel && o.Success() == success {
			out = append(out, o)
		}
	}
	return out
}

// Fanout runs every configured channel for a notification. Channels run
// concurrently and independently; the inbox channel is always attempted.
type Fanout struct {
	channels []Channel
	logger   *zap.Logger
}

// NewFanout builds a fanout over the given channels. Nil channels are skipped,
// so an unconfigured transport simply disables its channel.
func NewFanout(logger *zap.Logger, channels ...Channel) *Fanout {
	f := &Fanout{logger: logger}
	for _, ch := range channels {
		if ch != nil {
			f.channels = append(f.channels, ch)
		}
	}
	return f
}

// Notify never fails: partial and total channel failures are reported in
// the Result and logged.
func (f *Fanout) Notify(ctx context.Context, recipients []domain.User, payload Payload) Result {
	result := Result{Recipients: len(recipients)}
	if len(recipients) == 0 {
		return result
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, ch := range f.channels {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()
			outcomes := f.deliver(ctx, ch, recipients, payload)
			mu.Lock()
			result.Outcomes = append(result.Outcomes, outcomes...)
			mu.Unlock()
		}(ch)
	}
	wg.Wait()

	failed := len(result.Errors())
	if failed > 0 {
		f.logger.Warn("notification fan-out finished with failures",
			zap.String("type", string(payload.Type)),
			zap.Int("recipients", len(recipients)),
			zap.Int("failures", failed),
		)
	} else {
		f.logger.Debug("notification fan-out finished",
			zap.String("type", string(payload.Type)),
			zap.Int("recipients", len(recipients)),
		)
	}
	return result
}

// deliver isolates a channel so that a panic inside it is recorded as a
// failure for every recipient instead of taking down the other channels.
func (f *Fanout) deliver(ctx context.Context, ch Channel, recipients []domain.User, payload Payload) (outcomes []Outcome) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("notification channel panicked",
				zap.String("channel", string(ch.Name())),
				zap.Any("panic", r),
			)
			err := fmt.Errorf("channel %s failed: %v", ch.Name(), r)
			outcomes = make([]Outcome, 0, len(recipients))
			for _, u := range recipients {
				outcomes = append(outcomes, Outcome{RecipientID: u.ID, Channel: ch.Name(), Err: err})
			}
		}
	}()
	return ch.Deliver(ctx, recipients, payload)
}
