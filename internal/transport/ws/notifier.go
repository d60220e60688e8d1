package ws

import "github.com/vedran77/jobly/internal/domain"

// HubNotifier implements service.ApplicationNotifier using the Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyApplicationCreated(app domain.Application) {
	n.notify(EventTypeApplicationCreated, app)
}

func (n *HubNotifier) NotifyApplicationUpdated(app domain.Application) {
	n.notify(EventTypeApplicationUpdated, app)
}

func (n *HubNotifier) notify(eventType string, app domain.Application) {
	evt, err := NewEvent(eventType, app)
	if err != nil {
		n.hub.logger.Error("ws notifier: marshal event", "type", eventType, "error", err)
		return
	}
	n.hub.SendToUser(app.Username, evt)
}
