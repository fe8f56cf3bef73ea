package format

import "testing"

func TestAlign8(t *testing.T) {
	cases := map[int]int{0: 0, 1: 8, 7: 8, 8: 8, 9: 16, 16: 16, 4095: 4096}
	for in, want := range cases {
		if got := Align8(in); got != want {
			t.Fatalf("Align8(%d)=%d want %d", in, got, want)
		}
	}
}

func TestAdjustedSize(t *testing.T) {
	cases := []struct{ req, want int }{
		{1, 16},
		{8, 16},
		{9, 24},
		{16, 24},
		{17, 32},
		{24, 32},
		{100, 112},
		{4088, 4096},
		{4089, 4104},
	}
	for _, c := range cases {
		got := AdjustedSize(c.req)
		if got != c.want {
			t.Fatalf("AdjustedSize(%d)=%d want %d", c.req, got, c.want)
		}
		if got%DoubleWordSize != 0 || got < MinBlockSize || got-TagOverhead < c.req {
			t.Fatalf("AdjustedSize(%d)=%d breaks block constraints", c.req, got)
		}
	}
}

func TestEvenWords(t *testing.T) {
	if EvenWords(1024) != 1024 {
		t.Fatalf("even count must be unchanged")
	}
	if EvenWords(5) != 6 {
		t.Fatalf("odd count must round up")
	}
}

func TestIsAligned(t *testing.T) {
	if !IsAligned(16) || IsAligned(12) {
		t.Fatalf("IsAligned misreports 8-byte alignment")
	}
}
