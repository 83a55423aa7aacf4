package interp

import "testing"

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment()
	env.Define("x", Number(1))
	v, ok := env.Get("x")
	if !ok || v != Number(1) {
		t.Fatalf("Get(x) = %v, %v; want 1, true", v, ok)
	}
}

func TestEnvironmentGetWalksOuterChain(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Number(1))
	inner := NewEnclosedEnvironment(outer)
	v, ok := inner.Get("x")
	if !ok || v != Number(1) {
		t.Fatalf("Get(x) from inner = %v, %v; want 1, true", v, ok)
	}
}

func TestEnvironmentDefineShadowsInnermostOnly(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Number(1))
	inner := NewEnclosedEnvironment(outer)
	inner.Define("x", Number(2))

	if v, _ := inner.Get("x"); v != Number(2) {
		t.Errorf("inner.Get(x) = %v, want 2", v)
	}
	if v, _ := outer.Get("x"); v != Number(1) {
		t.Errorf("outer.Get(x) = %v, want unchanged 1", v)
	}
}

func TestEnvironmentSetUpdatesNearestEnclosingFrame(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Number(1))
	inner := NewEnclosedEnvironment(outer)

	if ok := inner.Set("x", Number(9)); !ok {
		t.Fatal("Set(x) returned false, want true")
	}
	if v, _ := outer.Get("x"); v != Number(9) {
		t.Errorf("outer.Get(x) = %v, want 9 (set should reach outward)", v)
	}
	if _, ok := inner.store["x"]; ok {
		t.Error("Set should not create a new binding in the inner frame")
	}
}

func TestEnvironmentSetFailsWhenUnbound(t *testing.T) {
	env := NewEnvironment()
	if env.Set("missing", Number(1)) {
		t.Fatal("Set on an unbound name should return false")
	}
}

func TestEnvironmentHas(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", Number(1))
	inner := NewEnclosedEnvironment(outer)
	if !inner.Has("x") {
		t.Error("Has(x) = false, want true via outer chain")
	}
	if inner.Has("y") {
		t.Error("Has(y) = true, want false")
	}
}
