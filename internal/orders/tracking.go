package orders

import (
	"time"

	"github.com/velvetloom/velvetloom-backend/pkg/db/models"
	"github.com/velvetloom/velvetloom-backend/pkg/enums"
	"github.com/velvetloom/velvetloom-backend/pkg/types"
)

// forecastOffsets is the delivery schedule promised at placement time.
var forecastOffsets = map[enums.OrderStatus]time.Duration{
	enums.OrderStatusPlaced:         0,
	enums.OrderStatusProcessing:     2 * time.Hour,
	enums.OrderStatusShipped:        24 * time.Hour,
	enums.OrderStatusOutForDelivery: 48 * time.Hour,
	enums.OrderStatusDelivered:      72 * time.Hour,
}

// BuildForecast returns the full tracking schedule anchored at now.
func BuildForecast(now time.Time) []types.TrackingStep {
	statuses := enums.TrackingStatuses()
	steps := make([]types.TrackingStep, 0, len(statuses))
	for _, status := range statuses {
		steps = append(steps, types.TrackingStep{
			Status: status.String(),
			Date:   now.Add(forecastOffsets[status]),
		})
	}
	return steps
}

// collapseSteps stamps every step at or before the reached index to now when
// the step is missing or its date is still in the future. Dates already in
// the past are actuals and stay put.
func collapseSteps(steps []types.TrackingStep, reachedIndex int, now time.Time) []types.TrackingStep {
	statuses := enums.TrackingStatuses()
	byStatus := make(map[string]int, len(steps))
	for i := range steps {
		byStatus[steps[i].Status] = i
	}

	out := append([]types.TrackingStep{}, steps...)
	for i, status := range statuses {
		if i > reachedIndex {
			break
		}
		idx, ok := byStatus[status.String()]
		if !ok {
			out = append(out, types.TrackingStep{Status: status.String(), Date: now})
			continue
		}
		if out[idx].Date.After(now) {
			out[idx].Date = now
		}
	}
	return out
}

// ProjectSteps renders the customer-facing timeline for an order. Every step
// reads cancelled once the order is cancelled; otherwise steps up to the
// current status are completed and the rest stay pending with their forecast.
func ProjectSteps(order *models.Order) []types.ProjectedStep {
	statuses := enums.TrackingStatuses()
	reached := enums.TrackingIndex(order.Status)

	dates := make(map[string]time.Time, len(order.TrackingSteps))
	for _, step := range order.TrackingSteps {
		dates[step.Status] = step.Date
	}

	out := make([]types.ProjectedStep, 0, len(statuses))
	for i, status := range statuses {
		projected := types.ProjectedStep{Status: status.String()}
		if date, ok := dates[status.String()]; ok {
			d := date
			projected.Date = &d
		}
		switch {
		case order.Status == enums.OrderStatusCancelled:
			projected.State = types.TrackingStepCancelled
		case reached >= 0 && i <= reached:
			projected.State = types.TrackingStepCompleted
		default:
			projected.State = types.TrackingStepPending
		}
		out = append(out, projected)
	}
	return out
}
