package events

import "context"

// Publisher announces computed projections to interested consumers.
type Publisher interface {
	PublishProjection(ctx context.Context, msg *ProjectionCalculatedMessage) error
	Close() error
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishProjection(context.Context, *ProjectionCalculatedMessage) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
