package mail

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleTransport writes messages to the log instead of sending them.
type ConsoleTransport struct {
	logger *zap.Logger
}

// NewConsoleTransport logs through logger, or discards when it is nil.
func NewConsoleTransport(logger *zap.Logger) *ConsoleTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleTransport{logger: logger}
}

// Send logs the message fields at info level.
func (t *ConsoleTransport) Send(_ context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	t.logger.Info("mail message",
		zap.String("from", msg.From),
		zap.Strings("to", msg.To),
		zap.String("reply_to", msg.ReplyTo),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
