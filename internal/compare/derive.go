package compare

import (
	"wayfare.openmobility.org/internal/models"
)

// Calorie burn per minute by ride method. These are the only two methods that
// burn calories; every other method derives to zero.
const (
	caloriesPerMinuteWalking = 5
	caloriesPerMinuteBiking  = 10
)

// CaloriesBurned derives calorie burn from trip time and ride method.
// It is a pure function: walking burns 5 calories per minute, biking 10,
// everything else zero. Criteria never carry an independently set value.
func CaloriesBurned(timeMinutes int, method models.RideMethod) int {
	switch method {
	case models.RideWalking:
		return timeMinutes * caloriesPerMinuteWalking
	case models.RideBiking:
		return timeMinutes * caloriesPerMinuteBiking
	default:
		return 0
	}
}

// applyQuote folds a live ride-hailing quote into the candidate criteria.
// Price always takes the upstream minimum per-person charge. Time takes the
// midpoint of the reported arrival window only when both bounds are present
// and nonzero; otherwise the configured default time is kept.
func applyQuote(criteria models.ServiceCriteria, minCharge float64, arriveMin, arriveMax int) models.ServiceCriteria {
	criteria.Price = minCharge
	if arriveMin != 0 && arriveMax != 0 {
		criteria.TimeMinutes = (arriveMin + arriveMax) / 2
	}
	return criteria
}
