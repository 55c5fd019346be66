// Package geometry implements the 2D predicates used to model passing lanes
// and interception disks on the pitch.
//
// All coordinates are plain Cartesian pitch metres. No projection or unit
// conversion happens here.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Point is a position on the pitch in metres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return floats.Dot([]float64{p.X, p.Y}, []float64{q.X, q.Y}) }

// Norm returns the Euclidean length of p.
func (p Point) Norm() float64 { return floats.Norm([]float64{p.X, p.Y}, 2) }

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Segment is the closed line segment between A and B. A == B is a valid
// degenerate segment that behaves as a single point.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Length returns the length of the segment.
func (s Segment) Length() float64 { return Distance(s.A, s.B) }

// IsDegenerate reports whether the segment has zero length.
func (s Segment) IsDegenerate() bool { return s.A == s.B }

// ClosestPoint returns the point on s nearest to p.
func (s Segment) ClosestPoint(p Point) Point {
	d := s.B.Sub(s.A)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return s.A
	}
	t := p.Sub(s.A).Dot(d) / lenSq
	switch {
	case t <= 0:
		return s.A
	case t >= 1:
		return s.B
	}
	return s.A.Add(d.Scale(t))
}

// DistanceToSegment returns the minimum distance from p to any point of s.
func DistanceToSegment(p Point, s Segment) float64 {
	return Distance(p, s.ClosestPoint(p))
}

// Circle is a closed disk.
type Circle struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p lies inside or on the circle.
func (c Circle) Contains(p Point) bool {
	return Distance(c.Center, p) <= c.Radius
}

// SegmentIntersectsCircle reports whether s and c share at least one point,
// i.e. the distance from the circle's center to the segment is at most its
// radius. The result does not depend on the direction of s.
func SegmentIntersectsCircle(s Segment, c Circle) bool {
	if c.Radius < 0 {
		return false
	}
	return DistanceToSegment(c.Center, s) <= c.Radius
}
