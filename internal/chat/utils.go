package chat

import (
	"fmt"
	"net"

	"github.com/wtask/framechat/internal/chat/broker"
	"github.com/wtask/framechat/internal/chat/frame"
)

// formatAddress - formats specified network address for logging purposes.
func formatAddress(a net.Addr) string {
	if a == nil {
		return "unknown address"
	}
	return fmt.Sprintf("%s %s", a.Network(), a.String())
}

// formatPartAction - returns string representation of broker.PartAction.
func formatPartAction(a broker.PartAction) string {
	switch a {
	case broker.PartActionReadError, broker.PartActionWriteError:
		return "dropped on " + a.String()
	case broker.PartActionShutdown:
		return "disconnected on shutdown"
	case broker.PartActionLeft:
		fallthrough
	default:
		return "closed connection"
	}
}

// formatFrame - returns printable frame text.
func formatFrame(f frame.Frame) string {
	return fmt.Sprintf("%q", frame.Sanitize(f.Text()))
}
