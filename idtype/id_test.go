package idtype

import "testing"

func TestOpIdCompareByteLex(t *testing.T) {
	a := OpId{0x01, 0x00}
	b := OpId{0x02, 0x00}
	if a.Compare(b) >= 0 {
		t.Fatalf("want a < b")
	}
	if b.Compare(a) <= 0 {
		t.Fatalf("want b > a")
	}
	if a.Compare(a) != 0 {
		t.Fatalf("want equal")
	}
	if !a.Less(b) {
		t.Fatalf("want a.Less(b)")
	}
}

func TestOpIdCompareIgnoresNumericMagnitude(t *testing.T) {
	// 0x00,0xFF sorts before 0x01,0x00 lexically despite the second byte
	// being numerically larger when read as a little-endian integer.
	a := OpId{0x00, 0xFF}
	b := OpId{0x01, 0x00}
	if a.Compare(b) >= 0 {
		t.Fatalf("want byte-lex order, not numeric order")
	}
}

func TestOutpointCompareOrdersByTxidThenVout(t *testing.T) {
	base := Txid{0x01}
	a := Outpoint{Txid: base, Vout: 1}
	b := Outpoint{Txid: base, Vout: 2}
	if !a.Less(b) {
		t.Fatalf("want a.Less(b) on vout")
	}
	c := Outpoint{Txid: Txid{0x02}, Vout: 0}
	if !a.Less(c) {
		t.Fatalf("want a.Less(c) on txid despite lower vout")
	}
}

func TestSortOpIDsAscending(t *testing.T) {
	ids := []OpId{{0x03}, {0x01}, {0x02}}
	SortOpIDs(ids)
	for i := 1; i < len(ids); i++ {
		if !ids[i-1].Less(ids[i]) {
			t.Fatalf("not sorted at %d: %v", i, ids)
		}
	}
}

func TestSortOutpointsAscending(t *testing.T) {
	points := []Outpoint{
		{Txid: Txid{0x02}, Vout: 0},
		{Txid: Txid{0x01}, Vout: 5},
		{Txid: Txid{0x01}, Vout: 1},
	}
	SortOutpoints(points)
	for i := 1; i < len(points); i++ {
		if !points[i-1].Less(points[i]) {
			t.Fatalf("not sorted at %d: %v", i, points)
		}
	}
}

func TestChainNetStringUnknown(t *testing.T) {
	if ChainNetUnknown.String() != "unknown" {
		t.Fatalf("want unknown, got %q", ChainNetUnknown.String())
	}
	if BitcoinMainnet.String() != "bitcoin-mainnet" {
		t.Fatalf("got %q", BitcoinMainnet.String())
	}
}

func TestStringIsHex(t *testing.T) {
	id := OpId{0xde, 0xad, 0xbe, 0xef}
	got := id.String()
	want := "deadbeef" + "00000000000000000000000000000000000000000000000000000000"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
