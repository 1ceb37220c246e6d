package notifications

import (
	"context"

	"github.com/9ssi7/exponent"
)

// PushSender is the slice of the Expo client the account notifier
// needs: one message for the common single-device user, a batch when
// several devices are registered. Declared here so tests can substitute
// a recording fake.
type PushSender interface {
	Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error)
	PublishSingle(ctx context.Context, msg *exponent.Message) ([]*exponent.MessageResponse, error)
}
