package umbrella

import "umbrella-bot/internal/domain/entity"

const (
	// DefaultHoursAhead is the look-ahead window used when none is configured.
	DefaultHoursAhead = 6
	// ProbabilityThresholdPct is the inclusive precipitation probability that calls for an umbrella.
	ProbabilityThresholdPct = 30
)

// Decide inspects the first hoursAhead observations of forecast and reports whether an
// umbrella is needed. An empty forecast is Unknown. A non-positive window scans nothing
// and yields NoUmbrellaNeeded.
func Decide(forecast entity.Forecast, hoursAhead int) entity.Decision {
	if len(forecast) == 0 {
		return entity.DecisionUnknown
	}

	window := min(max(hoursAhead, 0), len(forecast))
	for _, observation := range forecast[:window] {
		if isRainy(observation) {
			return entity.DecisionNeedsUmbrella
		}
	}
	return entity.DecisionNoUmbrellaNeeded
}

func isRainy(observation entity.HourlyObservation) bool {
	if p := observation.PrecipitationProbabilityPct; p != nil && *p >= ProbabilityThresholdPct {
		return true
	}
	if mm := observation.PrecipitationMm; mm != nil && *mm > 0 {
		return true
	}
	return false
}
