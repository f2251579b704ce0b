package types

import "time"

// TrackingStepState is the projector-facing state of one timeline entry.
type TrackingStepState string

const (
	TrackingStepCompleted TrackingStepState = "completed"
	TrackingStepPending   TrackingStepState = "pending"
	TrackingStepCancelled TrackingStepState = "cancelled"
)

// TrackingStep is one persisted entry of the order timeline. Date is either
// the actual completion time or a forecast for steps not yet reached.
type TrackingStep struct {
	Status string    `json:"status"`
	Date   time.Time `json:"date"`
}

// ProjectedStep is what the tracking endpoint returns for each timeline step.
type ProjectedStep struct {
	Status string            `json:"status"`
	Date   *time.Time        `json:"date,omitempty"`
	State  TrackingStepState `json:"state"`
}
