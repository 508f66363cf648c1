package email

import (
	"context"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// SendResult is the outcome of one send. A Mailer reports failures here
// instead of returning an error.
type SendResult struct {
	Success bool
	Err     error
}

func Sent() SendResult {
	return SendResult{Success: true}
}

func Failed(err error) SendResult {
	return SendResult{Err: err}
}

type Mailer interface {
	Send(ctx context.Context, msg Message) SendResult
}
