package sse

import "time"

// Notifier is the interface the inventory controller uses to emit events.
// Implementations must not block.
type Notifier interface {
	NotifyInventoryChanged(totalRecords int)
	NotifySessionChanged(authenticated bool)
}

// HubNotifier implements Notifier using the SSE Hub.
type HubNotifier struct {
	hub *Hub
	now func() time.Time
}

// NewHubNotifier creates a notifier backed by the given Hub.
func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub, now: time.Now}
}

func (n *HubNotifier) NotifyInventoryChanged(totalRecords int) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&InventoryEvent{
		Event:         EventInventoryChanged,
		Authenticated: true,
		TotalRecords:  totalRecords,
		Timestamp:     n.now(),
	})
}

func (n *HubNotifier) NotifySessionChanged(authenticated bool) {
	if n.hub.ClientCount() == 0 {
		return
	}
	n.hub.Broadcast(&InventoryEvent{
		Event:         EventSessionChanged,
		Authenticated: authenticated,
		Timestamp:     n.now(),
	})
}

// NopNotifier is a no-op implementation for when SSE is not needed.
type NopNotifier struct{}

func (NopNotifier) NotifyInventoryChanged(int) {}
func (NopNotifier) NotifySessionChanged(bool)  {}
