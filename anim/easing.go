package anim

import "math"

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// Linear progresses at a constant rate.
func Linear(t float64) float64 {
	return t
}

// OutQuad decelerates towards the end.
func OutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// OutQuint decelerates strongly towards the end.
func OutQuint(t float64) float64 {
	return 1 - math.Pow(1-t, 5)
}

// StandardEasing is the curve used for rebounds, snaps and expansion.
var StandardEasing Easing = OutQuint
