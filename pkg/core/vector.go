package core

import "math"

// Vector3 represents a 3D vector in world coordinates
type Vector3 struct {
	X, Y, Z float64
}

// Vec3 is a convenience constructor
func Vec3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

func (v Vector3) Subtract(other Vector3) Vector3 {
	return Vector3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// MagnitudeSq avoids the sqrt for comparisons
func (v Vector3) MagnitudeSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Normalize returns the unit vector. A zero vector normalizes to the zero
// vector rather than producing NaN.
func (v Vector3) Normalize() Vector3 {
	mag := v.Magnitude()
	if mag == 0 {
		return v
	}
	return v.Scale(1.0 / mag)
}

func (v Vector3) DistanceTo(other Vector3) float64 {
	return v.Subtract(other).Magnitude()
}

// ClampMagnitude caps the vector's length at max, preserving direction.
func (v Vector3) ClampMagnitude(max float64) Vector3 {
	if max <= 0 {
		return Vector3{}
	}
	magSq := v.MagnitudeSq()
	if magSq <= max*max {
		return v
	}
	return v.Scale(max / math.Sqrt(magSq))
}

// Horizontal zeroes the Z component, used for ground-plane geometry.
func (v Vector3) Horizontal() Vector3 {
	return Vector3{X: v.X, Y: v.Y}
}

// IsZero reports whether all components are exactly zero.
func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// AngleTo returns the angle in radians between two vectors. Either vector
// being zero yields 0.
func (v Vector3) AngleTo(other Vector3) float64 {
	m := v.Magnitude() * other.Magnitude()
	if m == 0 {
		return 0
	}
	cos := v.Dot(other) / m
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// RotateToward rotates v toward target by at most maxAngle radians, keeping
// the magnitude of v. Used to enforce turn-rate limits. Degenerate inputs
// (zero vectors, parallel or anti-parallel directions) fall back to the
// target direction at v's magnitude.
func (v Vector3) RotateToward(target Vector3, maxAngle float64) Vector3 {
	mag := v.Magnitude()
	if mag == 0 || target.IsZero() {
		return target
	}
	angle := v.AngleTo(target)
	if angle <= maxAngle {
		return target.Normalize().Scale(mag)
	}

	axis := v.Cross(target)
	if axis.IsZero() {
		// Anti-parallel: no unique rotation plane, pick one orthogonal axis.
		axis = v.Cross(Vector3{Z: 1})
		if axis.IsZero() {
			axis = v.Cross(Vector3{X: 1})
		}
	}
	axis = axis.Normalize()

	// Rodrigues rotation of v around axis by maxAngle.
	cos := math.Cos(maxAngle)
	sin := math.Sin(maxAngle)
	rotated := v.Scale(cos).
		Add(axis.Cross(v).Scale(sin)).
		Add(axis.Scale(axis.Dot(v) * (1 - cos)))
	return rotated.Normalize().Scale(mag)
}
