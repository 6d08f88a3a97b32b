package la

import "math"

// Vec2 is a 2-component vector.
type Vec2 [2]float64

// Vec3 is a 3-component vector.
type Vec3 [3]float64

// Add returns a + b.
func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a[0] + b[0], a[1] + b[1]} }

// Sub returns a - b.
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a[0] - b[0], a[1] - b[1]} }

// Scale returns a * s.
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a[0] * s, a[1] * s} }

// Dot returns the inner product a . b.
func (a Vec2) Dot(b Vec2) float64 { return a[0]*b[0] + a[1]*b[1] }

// Length returns the Euclidean norm of a.
func (a Vec2) Length() float64 { return math.Sqrt(a.Dot(a)) }

// Cross2 returns the scalar "2D cross product" a0*b1 - a1*b0.
func Cross2(a, b Vec2) float64 { return a[0]*b[1] - a[1]*b[0] }

// AreCloseVec2 extends AreClose elementwise.
func AreCloseVec2(a, b Vec2) bool { return AreClose(a[0], b[0]) && AreClose(a[1], b[1]) }

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }

// Scale returns a * s.
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a[0] * s, a[1] * s, a[2] * s} }

// Dot returns the inner product a . b.
func (a Vec3) Dot(b Vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

// Length returns the Euclidean norm of a.
func (a Vec3) Length() float64 { return math.Sqrt(a.Dot(a)) }

// Normalize returns a scaled to unit length. Precondition: a is non-zero.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	return a.Scale(1.0 / l)
}

// Normalize returns a scaled to unit length. Precondition: a is non-zero.
func (a Vec2) Normalize() Vec2 {
	l := a.Length()
	return a.Scale(1.0 / l)
}

// Cross3 returns the 3D cross product a x b.
func Cross3(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// AreCloseVec3 extends AreClose elementwise.
func AreCloseVec3(a, b Vec3) bool {
	return AreClose(a[0], b[0]) && AreClose(a[1], b[1]) && AreClose(a[2], b[2])
}

// Average3 returns the arithmetic mean of vs. Precondition: len(vs) > 0.
func Average3(vs []Vec3) Vec3 {
	var sum Vec3
	for _, v := range vs {
		sum = sum.Add(v)
	}
	return sum.Scale(1.0 / float64(len(vs)))
}

// Positivize sign-canonicalizes a unit vector: it treats the signs of the
// components as bits of an integer and negates the vector if the
// complement bit pattern is numerically larger. This makes eigenvector
// axes deterministic across runs.
func Positivize3(v Vec3) Vec3 {
	var bits uint32
	for i := 0; i < 3; i++ {
		if v[i] >= 0.0 {
			bits |= 1 << uint(i)
		}
	}
	negBits := (^bits) & ((1 << 3) - 1)
	if negBits > bits {
		return v.Scale(-1)
	}
	return v
}

// Positivize2 is Positivize3 specialized to 2D.
func Positivize2(v Vec2) Vec2 {
	var bits uint32
	for i := 0; i < 2; i++ {
		if v[i] >= 0.0 {
			bits |= 1 << uint(i)
		}
	}
	negBits := (^bits) & ((1 << 2) - 1)
	if negBits > bits {
		return v.Scale(-1)
	}
	return v
}
