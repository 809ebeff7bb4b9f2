package losapi

import "net/http"

// Lifecycle event names announced on the configured Notifier.
const (
	EventRequestPre  = "request.pre"
	EventRequestPost = "request.post"
	EventRequestFail = "request.fail"
)

// Event is the payload delivered with a lifecycle notification. Request is
// always set; Response and Err depend on the event.
type Event struct {
	Request  *http.Request
	Response *http.Response
	Err      error
}

// Notifier is the observational capability lifecycle events are announced on.
// Return values are not consumed; implementations must not block.
type Notifier interface {
	Trigger(name string, ev *Event)
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(name string, ev *Event)

// Trigger calls f(name, ev).
func (f NotifierFunc) Trigger(name string, ev *Event) {
	f(name, ev)
}

// Notifiers fans a notification out to every member in order.
type Notifiers []Notifier

// Trigger delivers the event to each notifier.
func (n Notifiers) Trigger(name string, ev *Event) {
	for _, notifier := range n {
		if notifier != nil {
			notifier.Trigger(name, ev)
		}
	}
}

// NewLoggingNotifier returns a Notifier that records every lifecycle event on
// logger at debug level (error level for request.fail).
func NewLoggingNotifier(logger Logger) Notifier {
	return NotifierFunc(func(name string, ev *Event) {
		if logger == nil || ev == nil {
			return
		}
		method, target := "", ""
		if ev.Request != nil {
			method = ev.Request.Method
			target = ev.Request.URL.String()
		}
		if name == EventRequestFail {
			errMsg := ""
			if ev.Err != nil {
				errMsg = ev.Err.Error()
			}
			logger.Error("Request lifecycle event", "event", name, "method", method, "url", target, "error", errMsg)
			return
		}
		logger.Debug("Request lifecycle event", "event", name, "method", method, "url", target)
	})
}

// notify delivers a lifecycle event to the configured notifier, if any, and
// records it in metrics.
func (c *Client) notify(name string, ev *Event) {
	c.metrics.RecordEvent(name)
	if c.debug != nil && c.debug.Enabled && c.debug.LogEvents && c.logger != nil {
		c.logger.Debug("Lifecycle event", "event", name)
	}
	if c.notifier != nil {
		c.notifier.Trigger(name, ev)
	}
}
