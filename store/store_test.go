package store

import (
	"bytes"
	"testing"

	"github.com/rgbcore/validator/idtype"
	"github.com/rgbcore/validator/typesys"
	"github.com/rgbcore/validator/witness"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenRejectsEmptyDatadir(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("want error for empty datadir")
	}
}

func TestPutTypeAndLoadTypeSystem(t *testing.T) {
	db := openTestDB(t)
	sem := typesys.SemId{0x01}
	if err := db.PutType(sem, []byte("descriptor")); err != nil {
		t.Fatalf("PutType: %v", err)
	}
	types, err := db.LoadTypeSystem()
	if err != nil {
		t.Fatalf("LoadTypeSystem: %v", err)
	}
	got, ok := types.Get(sem)
	if !ok || string(got.Descriptor) != "descriptor" {
		t.Fatalf("got %+v %v", got, ok)
	}
}

func TestWitnessOrdRoundTripsAllVariants(t *testing.T) {
	db := openTestDB(t)
	cases := []struct {
		name string
		ord  witness.WitnessOrd
	}{
		{"archived", witness.Archived{}},
		{"ignored", witness.Ignored{}},
		{"tentative", witness.Tentative{}},
		{"mined", witness.Mined{Height: 12345}},
	}
	for _, c := range cases {
		txid := idtype.Txid{byte(len(c.name))}
		if err := db.PutWitnessOrd(txid, c.ord); err != nil {
			t.Fatalf("%s: PutWitnessOrd: %v", c.name, err)
		}
		got, found, err := db.GetWitnessOrd(txid)
		if err != nil || !found {
			t.Fatalf("%s: got %v found=%v err=%v", c.name, got, found, err)
		}
		if witness.Compare(got, c.ord) != 0 {
			t.Fatalf("%s: got %v want %v", c.name, got, c.ord)
		}
	}
}

func TestGetWitnessOrdMissingReportsNotFound(t *testing.T) {
	db := openTestDB(t)
	_, found, err := db.GetWitnessOrd(idtype.Txid{0x99})
	if err != nil || found {
		t.Fatalf("got found=%v err=%v", found, err)
	}
}

func TestSealedSecretRoundTrip(t *testing.T) {
	db := openTestDB(t)
	kek := bytes.Repeat([]byte{0x42}, 32)
	secret := []byte("resolver-cred-16")

	if err := db.PutSealedSecret(kek, "resolver", secret); err != nil {
		t.Fatalf("PutSealedSecret: %v", err)
	}
	got, found, err := db.GetSealedSecret(kek, "resolver")
	if err != nil || !found {
		t.Fatalf("got found=%v err=%v", found, err)
	}
	if !bytes.Equal(got, secret) {
		t.Fatalf("got %q want %q", got, secret)
	}
}

func TestSealedSecretWrongKekFailsIntegrityCheck(t *testing.T) {
	db := openTestDB(t)
	kek := bytes.Repeat([]byte{0x42}, 32)
	wrongKek := bytes.Repeat([]byte{0x43}, 32)
	if err := db.PutSealedSecret(kek, "resolver", []byte("credential-bytes")); err != nil {
		t.Fatalf("PutSealedSecret: %v", err)
	}
	if _, _, err := db.GetSealedSecret(wrongKek, "resolver"); err == nil {
		t.Fatalf("want wrong kek to fail the unwrap integrity check")
	}
}
