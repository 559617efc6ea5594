// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"weddinglead_backend/platform/events"
	"weddinglead_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// InMemoryBus is a type alias to the platform InMemoryBus
type InMemoryBus = events.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
// This is a convenience re-export from platform/events.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// LeadCreated is published when a new lead is registered through intake or
// the dashboard. The notification module subscribes to alert staff.
type LeadCreated struct {
	BaseEvent
	LeadID      uuid.UUID  `json:"leadId"`
	VendorID    uuid.UUID  `json:"vendorId"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	DesiredDate *time.Time `json:"desiredDate,omitempty"`
	GuestCount  *int       `json:"guestCount,omitempty"`
	Source      string     `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadStatusChanged is published when a lead moves through the pipeline.
type LeadStatusChanged struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	VendorID uuid.UUID `json:"vendorId"`
	Name     string    `json:"name"`
	From     string    `json:"from"`
	To       string    `json:"to"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }
