package entity

import "time"

// Tipos de evento de auditoría de una orden de trabajo.
const (
	WOEventStarted   = "STARTED"
	WOEventPaused    = "PAUSED"
	WOEventResumed   = "RESUMED"
	WOEventCompleted = "COMPLETED"
	WOEventCanceled  = "CANCELED"
)

// WorkOrderEvent evento de auditoría de las transiciones de una orden de trabajo:
// secuencia ordenada y consultable, en lugar de concatenar líneas en el campo de
// notas.
type WorkOrderEvent struct {
	ID          string
	WorkOrderID string
	EventType   string
	Notes       string
	ActorID     string
	OccurredAt  time.Time
}
