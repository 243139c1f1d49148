package taxcode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve_KnownCodes(t *testing.T) {
	cases := map[string]int{
		"0":  0,
		"2":  12,
		"3":  14,
		"4":  15,
		"5":  5,
		"6":  0,
		"7":  0,
		"8":  0,
		"10": 13,
	}
	for code, want := range cases {
		if got := Resolve(code); got != want {
			t.Fatalf("Resolve(%q) = %d, want %d", code, got, want)
		}
	}
}

func TestResolve_UnknownCodesDefaultToZero(t *testing.T) {
	var nilPtr *string
	inputs := []any{nil, "", "99", "1", " 4", "4.5", true, nilPtr}
	for _, input := range inputs {
		if got := Resolve(input); got != 0 {
			t.Fatalf("Resolve(%#v) = %d, want 0", input, got)
		}
	}
}

func TestResolve_NonStringInputsAreStringified(t *testing.T) {
	if got := Resolve(4); got != 15 {
		t.Fatalf("Resolve(4) = %d, want 15", got)
	}
	if got := Resolve(10); got != 13 {
		t.Fatalf("Resolve(10) = %d, want 13", got)
	}
	if got := Resolve(Code("2")); got != 12 {
		t.Fatalf("Resolve(Code(2)) = %d, want 12", got)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Resolve("4"); got != 15 {
			t.Fatalf("call %d: got %d", i, got)
		}
	}
	if got := Resolve("99"); got != 0 {
		t.Fatalf("unknown code mutated table: %d", got)
	}
}

func TestLookup_ReportsKnown(t *testing.T) {
	if pct, ok := Lookup("6"); !ok || pct != 0 {
		t.Fatalf("Lookup(6) = %d,%v", pct, ok)
	}
	if _, ok := Lookup("99"); ok {
		t.Fatalf("expected 99 to be unknown")
	}
}

func TestEntries_OrderedNumerically(t *testing.T) {
	var codes []Code
	for _, entry := range Entries() {
		codes = append(codes, entry.Code)
	}
	want := []Code{"0", "2", "3", "4", "5", "6", "7", "8", "10"}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if Label("7") != "Exento de IVA" {
		t.Fatalf("unexpected label %q", Label("7"))
	}
}
