package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	kitchen = Coordinate{Lat: 10.5105, Lng: 7.4165}
	dest    = Coordinate{Lat: 10.6105, Lng: 7.5165}
)

func TestRiderPinnedWhilePreparing(t *testing.T) {
	for _, status := range []Status{StatusReceived, StatusPreparing} {
		state := Rider(status, kitchen, dest, 17*time.Second)
		assert.Equal(t, kitchen, state.Position, "status %s pins the rider at the origin", status)
	}
}

func TestRiderPinnedWhenDelivered(t *testing.T) {
	state := Rider(StatusDelivered, kitchen, dest, 3*time.Second)
	assert.Equal(t, dest, state.Position)
}

func TestRiderInterpolatesLinearly(t *testing.T) {
	// A quarter of the loop period puts the rider a quarter of the way.
	state := Rider(StatusDispatch, kitchen, dest, RouteLoopPeriod/4)
	assert.InDelta(t, kitchen.Lat+0.25*(dest.Lat-kitchen.Lat), state.Position.Lat, 1e-9)
	assert.InDelta(t, kitchen.Lng+0.25*(dest.Lng-kitchen.Lng), state.Position.Lng, 1e-9)
	assert.Equal(t, PhaseOnTheWay, state.Phase)
}

func TestRiderArrivingPhase(t *testing.T) {
	// Final half of the route renders as arriving.
	state := Rider(StatusDispatch, kitchen, dest, 3*RouteLoopPeriod/4)
	assert.Equal(t, PhaseArriving, state.Phase)

	// An arriving rider never sits below the halfway point.
	fraction := (state.Position.Lat - kitchen.Lat) / (dest.Lat - kitchen.Lat)
	assert.GreaterOrEqual(t, fraction, 0.5)
}

func TestRiderLoops(t *testing.T) {
	// The animation wraps: one full period later the frame repeats.
	a := Rider(StatusDispatch, kitchen, dest, 7*time.Second)
	b := Rider(StatusDispatch, kitchen, dest, 7*time.Second+RouteLoopPeriod)
	assert.Equal(t, a, b)
}

func TestRouteFraction(t *testing.T) {
	assert.InDelta(t, 0.0, RouteFraction(0), 1e-9)
	assert.InDelta(t, 0.5, RouteFraction(15*time.Second), 1e-9)
	assert.InDelta(t, 0.0, RouteFraction(30*time.Second), 1e-9, "wraps at the loop period")
	assert.InDelta(t, 0.0, RouteFraction(-5*time.Second), 1e-9, "negative elapsed clamps to start")
}

func TestArrivingFloor(t *testing.T) {
	assert.Equal(t, 0.5, ArrivingFloor(0.1))
	assert.Equal(t, 0.75, ArrivingFloor(0.75))
	assert.Equal(t, 1.0, ArrivingFloor(1.2))
}
