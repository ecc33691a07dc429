package hint

import "testing"

func TestNormalize(t *testing.T) {
	tests := map[string]struct {
		in   SizeHint
		want SizeHint
	}{
		"ordered":          {SizeHint{1, 2, 3}, SizeHint{1, 2, 3}},
		"negative minimum": {SizeHint{-5, 2, 3}, SizeHint{0, 2, 3}},
		"preferred below":  {SizeHint{10, 2, 30}, SizeHint{10, 10, 30}},
		"maximum below":    {SizeHint{1, 20, 3}, SizeHint{1, 20, 20}},
		"all inverted":     {SizeHint{30, 20, 10}, SizeHint{30, 30, 30}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := tt.in
			got.Normalize()
			if got != tt.want {
				t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSize(t *testing.T) {
	h := New(1, 2, 3)
	for which, want := range map[Which]float64{Minimum: 1, Preferred: 2, Maximum: 3} {
		if got := h.Size(which); got != want {
			t.Errorf("Size(%v) = %v, want %v", which, got, want)
		}
		h.SetSize(which, want*10)
		if got := h.Size(which); got != want*10 {
			t.Errorf("after SetSize(%v) Size = %v, want %v", which, got, want*10)
		}
	}
}

func TestDefault(t *testing.T) {
	if !Default().IsDefault() || !Default().IsUnlimited() {
		t.Error("Default() should be default and unlimited")
	}
	if Fixed(10).IsUnlimited() {
		t.Error("Fixed(10) should not be unlimited")
	}
}

func TestBound(t *testing.T) {
	h := New(10, 20, 30)
	for length, want := range map[float64]float64{-5: 10, 15: 15, 50: 30} {
		if got := h.Bound(length); got != want {
			t.Errorf("Bound(%v) = %v, want %v", length, got, want)
		}
	}
}

func TestParseWhich(t *testing.T) {
	tests := map[string]struct {
		want Which
		ok   bool
	}{
		"min":       {Minimum, true},
		"preferred": {Preferred, true},
		"max":       {Maximum, true},
		"":          {Preferred, true},
		"biggest":   {Preferred, false},
	}

	for in, tt := range tests {
		got, ok := ParseWhich(in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseWhich(%q) = %v, %v, want %v, %v", in, got, ok, tt.want, tt.ok)
		}
	}
}
