package entity

// Decision is the umbrella recommendation for a forecast window.
type Decision int

const (
	// DecisionUnknown means there was no forecast data to decide on.
	DecisionUnknown Decision = iota
	DecisionNeedsUmbrella
	DecisionNoUmbrellaNeeded
)

func (d Decision) String() string {
	switch d {
	case DecisionNeedsUmbrella:
		return "NEEDS_UMBRELLA"
	case DecisionNoUmbrellaNeeded:
		return "NO_UMBRELLA_NEEDED"
	default:
		return "UNKNOWN"
	}
}
