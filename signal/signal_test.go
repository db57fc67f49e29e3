package signal

import "testing"

func TestNormalizeClamping(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, 0},
		{255, 255},
		{256, 0},
		{-1, 255},
		{512, 0},
		{-256, 0},
	}
	for _, c := range cases {
		got := Ok(c.in).Code
		if got != c.want {
			t.Errorf("Ok(%d).Code = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	statuses := []Status{
		Ok(0), Ok(1), Ok(127), Ok(255),
		Break(), Continue(),
		Exit(0), Exit(1), Exit(99), Exit(255),
		Return(0), Return(42), Return(255),
	}
	for _, s := range statuses {
		encoded := Encode(s)
		decoded := Decode(encoded)
		if decoded != s {
			t.Errorf("round trip mismatch: %v -> %d -> %v", s, encoded, decoded)
		}
	}
}

func TestRangesDoNotOverlap(t *testing.T) {
	seen := map[int]Status{}
	check := func(s Status) {
		e := Encode(s)
		if prev, ok := seen[e]; ok && prev != s {
			t.Fatalf("encoding collision: %v and %v both encode to %d", prev, s, e)
		}
		seen[e] = s
	}
	for c := 0; c <= 255; c++ {
		check(Ok(c))
		check(Exit(c))
		check(Return(c))
	}
	check(Break())
	check(Continue())
}

func TestIsSignal(t *testing.T) {
	if Ok(0).IsSignal() {
		t.Error("Ok should not be a signal")
	}
	if !Exit(0).IsSignal() {
		t.Error("Exit should be a signal")
	}
	if !Break().IsSignal() {
		t.Error("Break should be a signal")
	}
}
