// Package lifecycle maps order statuses onto the fixed progressions shown by the order tracker.
package lifecycle

import (
	"slices"

	"github.com/swadseva/ordering/internal/service/models/order"
)

var (
	deliveryProgression = []order.Status{
		order.StatusPending,
		order.StatusPreparing,
		order.StatusReady,
		order.StatusOutForDelivery,
		order.StatusDelivered,
	}
	takeawayProgression = []order.Status{
		order.StatusPending,
		order.StatusPreparing,
		order.StatusReady,
		order.StatusCompleted,
	}
)

// StepState is the display state of a single step.
type StepState string

const (
	StepCompleted  StepState = "completed"
	StepInProgress StepState = "in_progress"
	StepPending    StepState = "pending"
)

// Step is one entry of a rendered progression.
type Step struct {
	Status order.Status `json:"status"`
	State  StepState    `json:"state"`
}

// ProgressionFor returns the ordered statuses for an order type, or nil for an unknown type.
func ProgressionFor(orderType order.Type) []order.Status {
	switch orderType {
	case order.TypeDelivery:
		return slices.Clone(deliveryProgression)
	case order.TypeTakeaway:
		return slices.Clone(takeawayProgression)
	default:
		return nil
	}
}

// CurrentStep returns the index of status in the progression of orderType, or -1 if it is not part of it.
func CurrentStep(orderType order.Type, status order.Status) int {
	return slices.Index(ProgressionFor(orderType), status)
}

// Steps renders the progression for display. Steps before the current one are completed,
// the current one is in progress. An unknown status leaves every step pending.
func Steps(orderType order.Type, status order.Status) []Step {
	progression := ProgressionFor(orderType)
	current := slices.Index(progression, status)

	steps := make([]Step, len(progression))
	for i, s := range progression {
		state := StepPending
		switch {
		case current < 0:
		case i < current:
			state = StepCompleted
		case i == current:
			state = StepInProgress
		}
		steps[i] = Step{Status: s, State: state}
	}

	return steps
}

// IsKnown reports whether status belongs to the progression of orderType.
func IsKnown(orderType order.Type, status order.Status) bool {
	return CurrentStep(orderType, status) >= 0
}

// CanTransition reports whether an order may move from one status to another.
// Moving forward, including skipping steps, is allowed; staying put is a no-op.
func CanTransition(orderType order.Type, from, to order.Status) bool {
	fromIdx := CurrentStep(orderType, from)
	toIdx := CurrentStep(orderType, to)
	if toIdx < 0 {
		return false
	}
	if fromIdx < 0 {
		return true
	}

	return toIdx >= fromIdx
}

// IsTerminal reports whether status is the last step for orderType.
func IsTerminal(orderType order.Type, status order.Status) bool {
	progression := ProgressionFor(orderType)
	if len(progression) == 0 {
		return false
	}

	return progression[len(progression)-1] == status
}
