package models

import "testing"

func TestPairRoomKeyOrderIndependent(t *testing.T) {
	if PairRoomKey(7, 3) != PairRoomKey(3, 7) {
		t.Fatalf("room key must not depend on argument order")
	}
	if got := PairRoomKey(3, 7); got != "dm:3:7" {
		t.Fatalf("PairRoomKey(3,7) = %q", got)
	}
}

func TestCanonicalPair(t *testing.T) {
	a, b := CanonicalPair(9, 2)
	if a != 2 || b != 9 {
		t.Fatalf("CanonicalPair(9,2) = (%d,%d)", a, b)
	}
	a, b = CanonicalPair(2, 9)
	if a != 2 || b != 9 {
		t.Fatalf("CanonicalPair(2,9) = (%d,%d)", a, b)
	}
}
