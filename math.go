package wtransfer

import "math"

const (
	deg2rad = math.Pi / 180
)
