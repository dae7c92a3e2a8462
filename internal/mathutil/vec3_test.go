package mathutil

import (
	"math"
	"testing"
)

func TestVec3Basics(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}

	if got := a.Add(b); got != (Vec3{5, -3, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vec3{-3, 7, -3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
	if got := (Vec3{1, 0, 0}).Cross(Vec3{0, 1, 0}); got != (Vec3{0, 0, 1}) {
		t.Errorf("Cross = %v, want z axis", got)
	}
}

func TestVec3Len(t *testing.T) {
	if got := (Vec3{3, 0, 4}).Len(); got != 5 {
		t.Errorf("Len = %v, want 5", got)
	}
	// Right triangle with legs 3 and 4: |e1×e2|/2 = 6.
	e1, e2 := Vec3{3, 0, 0}, Vec3{0, 4, 0}
	if got := e1.Cross(e2).Len() / 2; got != 6 {
		t.Errorf("triangle area = %v, want 6", got)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 4, -8}
	tests := []struct {
		name string
		t    float64
		want Vec3
	}{
		{"start", 0, a},
		{"end", 1, b},
		{"middle", 0.5, Vec3{1, 2, -4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Lerp(b, tt.t); !got.ApproxEqual(tt.want, 1e-12) {
				t.Errorf("Lerp(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("finite vector reported non-finite")
	}
	if (Vec3{1, math.NaN(), 3}).IsFinite() {
		t.Error("NaN component not detected")
	}
	if (Vec3{math.Inf(1), 0, 0}).IsFinite() {
		t.Error("Inf component not detected")
	}
}
