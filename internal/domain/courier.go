package domain

import "time"

// RouteLoopPeriod is the animation period of the simulated rider. No real
// telemetry exists, so the position loops from origin to destination on
// this cadence while an order is out for dispatch.
const RouteLoopPeriod = 30 * time.Second

// RoutePhase is the visual sub-state of a dispatched order.
type RoutePhase string

const (
	PhaseOnTheWay RoutePhase = "on_the_way"
	PhaseArriving RoutePhase = "arriving"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RiderState is one frame of the simulated rider feed.
type RiderState struct {
	Position Coordinate `json:"position"`
	Phase    RoutePhase `json:"phase,omitempty"`
}

// lerp interpolates a straight path: O + f*(D-O).
func lerp(origin, dest Coordinate, f float64) Coordinate {
	return Coordinate{
		Lat: origin.Lat + (dest.Lat-origin.Lat)*f,
		Lng: origin.Lng + (dest.Lng-origin.Lng)*f,
	}
}

// RouteFraction maps elapsed wall-clock time onto [0,1) modulo the loop
// period.
func RouteFraction(elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return float64(elapsed%RouteLoopPeriod) / float64(RouteLoopPeriod)
}

// ArrivingFloor clamps an interpolation fraction so an "arriving" rider
// never appears less than halfway along the route.
func ArrivingFloor(f float64) float64 {
	if f < 0.5 {
		return 0.5
	}
	if f > 1 {
		return 1
	}
	return f
}

// Rider computes the simulated rider frame for an order in the given
// status, elapsed since the feed started:
//
//   - received/preparing: pinned at the kitchen origin, no motion
//   - dispatch: linear interpolation looping over RouteLoopPeriod; once the
//     rider is within the final half of the route the phase becomes
//     "arriving" and the fraction is floored at 0.5 so it never visually
//     drops below halfway
//   - delivered: pinned at the destination
func Rider(status Status, origin, dest Coordinate, elapsed time.Duration) RiderState {
	switch status {
	case StatusDispatch:
		f := RouteFraction(elapsed)
		phase := PhaseOnTheWay
		if f >= 0.5 {
			phase = PhaseArriving
			f = ArrivingFloor(f)
		}
		return RiderState{Position: lerp(origin, dest, f), Phase: phase}
	case StatusDelivered:
		return RiderState{Position: dest}
	default:
		return RiderState{Position: origin}
	}
}
