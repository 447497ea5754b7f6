package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestTranslate(t *testing.T) {
	tr := Translate(V(0, 1, 0))
	got := tr(V(1, 0, 0))
	if !Near(got, V(1, 1, 0), eps) {
		t.Errorf("Translate = %v, want (1,1,0)", got)
	}
}

func TestRotateAbout(t *testing.T) {
	got := RotateAbout(V(0, 0, 1), math.Pi/2, V(1, 0, 0))
	if !Near(got, V(0, 1, 0), eps) {
		t.Errorf("rotating x by 90deg about z = %v, want (0,1,0)", got)
	}
}

func TestAffineMatchesTranslate(t *testing.T) {
	p := V(3, -2, 5)
	a := Affine(Translation(V(1, 2, 3)))(p)
	b := Translate(V(1, 2, 3))(p)
	if !Near(a, b, eps) {
		t.Errorf("Affine(Translation) = %v, Translate = %v", a, b)
	}
	if got := Affine(Identity())(p); !Near(got, p, eps) {
		t.Errorf("identity moved point to %v", got)
	}
}

func TestRevolve(t *testing.T) {
	tr := Revolve(V(1, 0, 0), V(0, 0, 1), math.Pi)
	got := tr(V(2, 0, 0))
	if !Near(got, V(0, 0, 0), eps) {
		t.Errorf("half turn about x=1 = %v, want origin", got)
	}
}

func TestNormalize(t *testing.T) {
	if n := Norm(Normalize(V(3, 4, 0))); math.Abs(n-1) > eps {
		t.Errorf("normalized length = %f", n)
	}
	if got := Normalize(Vec{}); got != (Vec{}) {
		t.Errorf("zero vector normalized to %v", got)
	}
}

func TestParallelPerpendicular(t *testing.T) {
	tests := []struct {
		a, b          Vec
		parallel, per bool
	}{
		{V(1, 0, 0), V(2, 0, 0), true, false},
		{V(1, 0, 0), V(-3, 0, 0), true, false},
		{V(1, 0, 0), V(0, 5, 0), false, true},
		{V(1, 1, 0), V(1, 0, 0), false, false},
	}
	for _, tt := range tests {
		if got := AreParallel(tt.a, tt.b); got != tt.parallel {
			t.Errorf("AreParallel(%v, %v) = %v", tt.a, tt.b, got)
		}
		if got := ArePerpendicular(tt.a, tt.b); got != tt.per {
			t.Errorf("ArePerpendicular(%v, %v) = %v", tt.a, tt.b, got)
		}
	}
}
