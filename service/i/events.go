package i

import "github.com/beka-birhanu/trapmaze/protocol"

// EventPublisher fans out move events to observers. Publish must not block.
type EventPublisher interface {
	Publish(protocol.MoveEvent)
}
