package vec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3Basics(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}

	assert.Equal(t, Vec3{5, -3, 9}, a.Add(b))
	assert.Equal(t, Vec3{-3, 7, -3}, a.Sub(b))
	assert.Equal(t, Vec3{2, 4, 6}, a.Scale(2))
	assert.InDelta(t, 12.0, a.Dot(b), 1e-12)
	assert.InDelta(t, math.Sqrt(14), a.Norm(), 1e-12)
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}
	assert.Equal(t, Vec3{Z: 1}, x.Cross(y))
	assert.Equal(t, Vec3{Z: -1}, y.Cross(x))
	assert.True(t, x.Cross(x).IsZero())
}

func TestVec3Unit(t *testing.T) {
	v := Vec3{3, 0, 4}
	u := v.Unit()
	assert.InDelta(t, 1.0, u.Norm(), 1e-12)
	assert.InDelta(t, 0.6, u.X, 1e-12)
	assert.InDelta(t, 0.8, u.Z, 1e-12)

	assert.True(t, Vec3{}.Unit().IsZero(), "zero vector normalizes to zero")
}

func TestVec3AngleTo(t *testing.T) {
	x := Vec3{X: 1}
	assert.InDelta(t, math.Pi/2, x.AngleTo(Vec3{Y: 2}), 1e-12)
	assert.InDelta(t, math.Pi, x.AngleTo(Vec3{X: -1}), 1e-12)
	assert.InDelta(t, 0.0, x.AngleTo(x), 1e-12)
	assert.Equal(t, 0.0, x.AngleTo(Vec3{}))
}

func TestQuatRotateAxisAngle(t *testing.T) {
	// 90 degrees about z takes x onto y.
	q := QuatFromAxisAngle(Vec3{Z: 1}, math.Pi/2)
	got := q.Rotate(Vec3{X: 1})
	assert.InDelta(t, 0.0, got.X, 1e-12)
	assert.InDelta(t, 1.0, got.Y, 1e-12)
	assert.InDelta(t, 0.0, got.Z, 1e-12)
}

func TestQuatBetween(t *testing.T) {
	from := Vec3{Z: 1}
	to := Vec3{1, 1, 1}
	q := QuatBetween(from, to)
	got := q.Rotate(from)
	want := to.Unit()
	assert.InDelta(t, want.X, got.X, 1e-12)
	assert.InDelta(t, want.Y, got.Y, 1e-12)
	assert.InDelta(t, want.Z, got.Z, 1e-12)
}

func TestQuatBetweenDegenerate(t *testing.T) {
	z := Vec3{Z: 1}

	// Parallel: identity.
	q := QuatBetween(z, z.Scale(3))
	assert.InDelta(t, 1.0, q.W, 1e-9)

	// Antiparallel: still a valid half-turn.
	q = QuatBetween(z, z.Scale(-1))
	got := q.Rotate(z)
	assert.InDelta(t, -1.0, got.Z, 1e-9)
	assert.InDelta(t, 1.0, q.Norm(), 1e-12)
}

func TestQuatMulConj(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{1, 2, 3}, 0.7)
	r := q.Mul(q.Conj())
	assert.InDelta(t, 1.0, r.W, 1e-12)
	assert.InDelta(t, 0.0, r.X, 1e-12)
	assert.InDelta(t, 0.0, r.Y, 1e-12)
	assert.InDelta(t, 0.0, r.Z, 1e-12)
}

func TestQuatDeriv(t *testing.T) {
	// At identity attitude, dq/dt = 0.5 * (0, w).
	w := Vec3{0.2, -0.4, 0.6}
	d := IdentityQuat().Deriv(w)
	assert.InDelta(t, 0.0, d.W, 1e-12)
	assert.InDelta(t, 0.1, d.X, 1e-12)
	assert.InDelta(t, -0.2, d.Y, 1e-12)
	assert.InDelta(t, 0.3, d.Z, 1e-12)
}

func TestQuatNormalize(t *testing.T) {
	q := Quat{2, 0, 0, 0}.Normalize()
	assert.Equal(t, IdentityQuat(), q)
	assert.Equal(t, IdentityQuat(), Quat{}.Normalize())
}

func TestMat3Inverse(t *testing.T) {
	m := Diag(2, 4, 8)
	inv, ok := m.Inverse()
	require.True(t, ok)
	v := Vec3{1, 1, 1}
	got := inv.MulVec(m.MulVec(v))
	assert.InDelta(t, v.X, got.X, 1e-12)
	assert.InDelta(t, v.Y, got.Y, 1e-12)
	assert.InDelta(t, v.Z, got.Z, 1e-12)

	_, ok = Diag(1, 0, 1).Inverse()
	assert.False(t, ok, "singular matrix must not invert")
}

func TestMat3Det(t *testing.T) {
	assert.InDelta(t, 64.0, Diag(2, 4, 8).Det(), 1e-12)
	m := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	assert.InDelta(t, 0.0, m.Det(), 1e-12)
}
