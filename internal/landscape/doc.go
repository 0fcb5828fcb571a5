// Package landscape loads, writes and generates fitness landscapes.
//
// A landscape is a dense grid of non-negative fitness values over integer
// gene coordinates, stored as:
//
//	width height maxFitness contourStep
//	v(0,0) v(1,0) ... v(width-1,0)
//	...
//	v(0,height-1) ...
//
// Landscapes come from a [Provider]: [FileProvider] reads the format above,
// [AnalyticProvider] samples a closed-form surface. Both yield the same
// immutable [Landscape] value.
package landscape
