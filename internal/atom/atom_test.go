package atom

import "testing"

func TestInternReusesHandle(t *testing.T) {
	a := From("targetname_test_alpha")
	b := From("targetname_test_alpha")
	if a != b {
		t.Fatalf("expected equal handles, got %v != %v", a, b)
	}
}

func TestInternDistinctStrings(t *testing.T) {
	a := From("targetname_test_beta")
	b := From("targetname_test_gamma")
	if a == b {
		t.Fatalf("expected distinct handles for distinct strings")
	}
}

func TestStringRoundTrip(t *testing.T) {
	s := "some_weird.atom-Name_42"
	a := From(s)
	if got := a.String(); got != s {
		t.Fatalf("String() = %q, want %q", got, s)
	}
}

func TestWellKnownAtoms(t *testing.T) {
	cases := map[Atom]string{
		LogicHatchet: "logic_hatchet",
		FuncInstance: "func_instance",
		LogicRelay:   "logic_relay",
		LogicAuto:    "logic_auto",
		OnMapSpawn:   "OnMapSpawn",
		OnTrigger:    "OnTrigger",
		Trigger:      "Trigger",
	}
	for a, want := range cases {
		if got := a.String(); got != want {
			t.Fatalf("atom %v: String() = %q, want %q", a, got, want)
		}
		if From(want) != a {
			t.Fatalf("From(%q) did not return the reserved well-known handle", want)
		}
	}
}

func TestInvalidIsZero(t *testing.T) {
	if Invalid != 0 {
		t.Fatalf("Invalid should be the zero value")
	}
	if Invalid.IsValid() {
		t.Fatalf("Invalid.IsValid() should be false")
	}
}
