package broker

import (
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/wtask/framechat/internal/chat/frame"
)

// NetEvent - base event related to client connection.
type NetEvent struct {
	Slot       SlotID
	Session    uuid.UUID
	Addr       net.Addr
	OriginTime time.Time
}

// JoinEvent - occurres after new client was registered.
type JoinEvent struct {
	NetEvent
	// Live - number of kept connections after join
	Live int
}

// RejectEvent - occurres when new client was dropped.
type RejectEvent struct {
	Addr       net.Addr
	OriginTime time.Time
	Reason     error
}

// MessageEvent - occurres when complete frame was relayed to other clients.
type MessageEvent struct {
	NetEvent
	Frame      frame.Frame
	Recipients int
}

// PartAction - describes the type of parting with client (connection).
type PartAction int

const (
	_ PartAction = iota
	// PartActionLeft - the parting is occurred due to connection was closed by client.
	PartActionLeft
	// PartActionReadError - the parting is occurred due to read failure.
	PartActionReadError
	// PartActionWriteError - the parting is occurred due to relay failure.
	PartActionWriteError
	// PartActionShutdown - the parting is occurred due to broker is stopping.
	PartActionShutdown
)

func (a PartAction) String() string {
	switch a {
	case PartActionLeft:
		return "left"
	case PartActionReadError:
		return "read error"
	case PartActionWriteError:
		return "write error"
	case PartActionShutdown:
		return "shutdown"
	default:
		return "unknown part action"
	}
}

// PartEvent - occurres after parting with client.
type PartEvent struct {
	NetEvent
	Action PartAction
	Err    error
	// Live - number of kept connections after part
	Live int
}

func netEvent(s *Slot) NetEvent {
	return NetEvent{
		Slot:       s.ID,
		Session:    s.Session,
		Addr:       s.Addr,
		OriginTime: time.Now().UTC(),
	}
}
