package vec

import "math"

// Quat is a unit quaternion used as an attitude representation.
// W is the scalar part.
type Quat struct {
	W, X, Y, Z float64
}

// IdentityQuat is the no-rotation attitude.
func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle builds the quaternion rotating by angle (radians)
// about the given axis. The axis does not need to be normalized.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	u := axis.Unit()
	s := math.Sin(angle / 2)
	return Quat{
		W: math.Cos(angle / 2),
		X: u.X * s,
		Y: u.Y * s,
		Z: u.Z * s,
	}
}

// QuatBetween returns the shortest-arc rotation taking from onto to.
// Both inputs are normalized internally. The antiparallel case picks an
// arbitrary perpendicular axis.
func QuatBetween(from, to Vec3) Quat {
	f := from.Unit()
	t := to.Unit()
	d := f.Dot(t)
	if d > 1-1e-12 {
		return IdentityQuat()
	}
	if d < -1+1e-12 {
		// 180 degree rotation about any axis perpendicular to f.
		perp := f.Cross(Vec3{X: 1})
		if perp.Norm() < 1e-9 {
			perp = f.Cross(Vec3{Y: 1})
		}
		return QuatFromAxisAngle(perp, math.Pi)
	}
	axis := f.Cross(t)
	return QuatFromAxisAngle(axis, math.Acos(d))
}

func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

func (q Quat) Conj() Quat {
	return Quat{q.W, -q.X, -q.Y, -q.Z}
}

func (q Quat) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

func (q Quat) Normalize() Quat {
	n := q.Norm()
	if n == 0 {
		return IdentityQuat()
	}
	return Quat{q.W / n, q.X / n, q.Y / n, q.Z / n}
}

// Rotate applies the rotation to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	p := Quat{0, v.X, v.Y, v.Z}
	r := q.Mul(p).Mul(q.Conj())
	return Vec3{r.X, r.Y, r.Z}
}

// Deriv is the quaternion kinematic equation dq/dt = 0.5 * q * (0, w)
// with w the angular velocity in the body frame.
func (q Quat) Deriv(w Vec3) Quat {
	half := q.Mul(Quat{0, w.X, w.Y, w.Z})
	return Quat{half.W * 0.5, half.X * 0.5, half.Y * 0.5, half.Z * 0.5}
}
