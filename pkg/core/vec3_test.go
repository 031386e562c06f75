package core

import (
	"math"
	"testing"
)

func TestVec3_Cross(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected Vec3
	}{
		{"x cross y", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(0, 0, 1)},
		{"y cross z", NewVec3(0, 1, 0), NewVec3(0, 0, 1), NewVec3(1, 0, 0)},
		{"z cross x", NewVec3(0, 0, 1), NewVec3(1, 0, 0), NewVec3(0, 1, 0)},
		{"parallel", NewVec3(2, 0, 0), NewVec3(5, 0, 0), NewVec3(0, 0, 0)},
		{"up cross forward", NewVec3(0, 1, 0), NewVec3(0, 0, 1), NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.a.Cross(tt.b)
			if result != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_Dot(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)
	if got := a.Dot(b); got != 12 {
		t.Errorf("Expected 12, got %f", got)
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4).Normalize()

	const tolerance = 1e-12
	if math.Abs(v.Length()-1.0) > tolerance {
		t.Errorf("Expected unit length, got %f", v.Length())
	}
	if math.Abs(v.X-0.6) > tolerance || math.Abs(v.Z-0.8) > tolerance {
		t.Errorf("Expected (0.6, 0, 0.8), got %v", v)
	}
}

func TestVec3_NormalizeZeroIsUndefined(t *testing.T) {
	v := Vec3{}.Normalize()
	if !math.IsNaN(v.X) {
		t.Errorf("Expected NaN when normalizing a zero vector, got %v", v)
	}
}

func TestVec3_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		v, n     Vec3
		expected Vec3
	}{
		{
			// Formula is -(2(v·n)n - v): incoming (1,-1,0) on floor gives (1,1,0) negated
			name:     "diagonal onto floor",
			v:        NewVec3(1, -1, 0),
			n:        NewVec3(0, 1, 0),
			expected: NewVec3(1, 1, 0),
		},
		{
			name:     "head on",
			v:        NewVec3(0, 0, -1),
			n:        NewVec3(0, 0, 1),
			expected: NewVec3(0, 0, 1),
		},
		{
			name:     "grazing",
			v:        NewVec3(1, 0, 0),
			n:        NewVec3(0, 1, 0),
			expected: NewVec3(1, 0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v.Reflect(tt.n)

			const tolerance = 1e-9
			if result.Subtract(tt.expected).Length() > tolerance {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_Clamp(t *testing.T) {
	v := NewVec3(-0.5, 0.5, 1.5).Clamp(0, 1)
	expected := NewVec3(0, 0.5, 1)
	if v != expected {
		t.Errorf("Expected %v, got %v", expected, v)
	}
}

func TestRay_At(t *testing.T) {
	r := NewRay(NewVec3(1, 1, 1), NewVec3(0, 0, 1000))
	p := r.At(0.5)
	expected := NewVec3(1, 1, 501)
	if p != expected {
		t.Errorf("Expected %v, got %v", expected, p)
	}
}

func TestVec3_Divide(t *testing.T) {
	v := NewVec3(1, -2, 0.7).Divide(3)
	if v != NewVec3(1.0/3, -2.0/3, 0.7/3) {
		t.Errorf("Expected per-component division, got %v", v)
	}
}
