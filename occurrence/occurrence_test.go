package occurrence

import "testing"

func TestCheckWithinBounds(t *testing.T) {
	o := Occurrence{Min: 1, Max: 3}
	for _, n := range []uint16{1, 2, 3} {
		if err := o.Check(n); err != nil {
			t.Fatalf("n=%d: unexpected error %v", n, err)
		}
	}
}

func TestCheckOutOfBounds(t *testing.T) {
	o := Occurrence{Min: 1, Max: 3}
	for _, n := range []uint16{0, 4} {
		err := o.Check(n)
		if err == nil {
			t.Fatalf("n=%d: want error", n)
		}
		oob, ok := err.(ErrOutOfBounds)
		if !ok {
			t.Fatalf("want ErrOutOfBounds, got %T", err)
		}
		if oob.Count != n {
			t.Fatalf("want count %d, got %d", n, oob.Count)
		}
	}
}

func TestContains(t *testing.T) {
	o := NoneOrOnce
	if !o.Contains(0) || !o.Contains(1) {
		t.Fatalf("want 0 and 1 contained in NoneOrOnce")
	}
	if o.Contains(2) {
		t.Fatalf("want 2 excluded from NoneOrOnce")
	}
}

func TestOnceOrMoreRejectsZero(t *testing.T) {
	if OnceOrMore.Contains(0) {
		t.Fatalf("want OnceOrMore to reject zero")
	}
	if !OnceOrMore.Contains(65535) {
		t.Fatalf("want OnceOrMore to accept max uint16")
	}
}

func TestNoneOrMoreAcceptsEverything(t *testing.T) {
	if !NoneOrMore.Contains(0) || !NoneOrMore.Contains(65535) {
		t.Fatalf("want NoneOrMore to accept the full range")
	}
}
