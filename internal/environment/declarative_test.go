package environment

import (
	"testing"

	"github.com/ecmago/ecma/internal/value"
)

func TestDeclarativeDefineAndGet(t *testing.T) {
	env := NewDeclarative(nil)
	env.CreateMutableBinding("x", false)
	env.InitializeBinding("x", value.Number(42))

	v, err := env.GetBindingValue("x", false)
	if err != nil {
		t.Fatalf("GetBindingValue returned error: %v", err)
	}
	if v.AsFloat64() != 42 {
		t.Errorf("expected 42, got %v", v.DebugString())
	}
}

func TestDeclarativeTDZ(t *testing.T) {
	env := NewDeclarative(nil)
	env.CreateImmutableBinding("y", true)

	if _, err := env.GetBindingValue("y", true); err == nil {
		t.Fatal("expected TDZ error reading uninitialized binding")
	}

	env.InitializeBinding("y", value.Number(1))
	if _, err := env.GetBindingValue("y", true); err != nil {
		t.Fatalf("expected no error after initialization, got %v", err)
	}
}

func TestDeclarativeConstAssignmentFails(t *testing.T) {
	env := NewDeclarative(nil)
	env.CreateImmutableBinding("z", true)
	env.InitializeBinding("z", value.Number(1))

	if err := env.SetMutableBinding("z", value.Number(2), true); err == nil {
		t.Fatal("expected error assigning to a const binding")
	}
}

func TestResolveBindingWalksOuterChain(t *testing.T) {
	outer := NewDeclarative(nil)
	outer.CreateMutableBinding("a", false)
	outer.InitializeBinding("a", value.Number(7))

	inner := NewDeclarative(outer)
	inner.CreateMutableBinding("b", false)
	inner.InitializeBinding("b", value.Number(8))

	if ResolveBinding(inner, "a") != outer {
		t.Error("expected 'a' to resolve to the outer environment")
	}
	if ResolveBinding(inner, "b") != inner {
		t.Error("expected 'b' to resolve to the inner environment")
	}
	if ResolveBinding(inner, "missing") != nil {
		t.Error("expected unresolved name to return nil")
	}
}

func TestDeclarativeSloppySetCreatesImplicitGlobalLikeBinding(t *testing.T) {
	env := NewDeclarative(nil)
	if err := env.SetMutableBinding("implicit", value.Number(3), false); err != nil {
		t.Fatalf("sloppy-mode assignment to an undeclared name should not error, got %v", err)
	}
	v, err := env.GetBindingValue("implicit", false)
	if err != nil || v.AsFloat64() != 3 {
		t.Fatalf("expected implicit binding to hold 3, got %v err=%v", v.DebugString(), err)
	}
}

func TestDeclarativeStrictSetUndeclaredFails(t *testing.T) {
	env := NewDeclarative(nil)
	if err := env.SetMutableBinding("missing", value.Number(1), true); err == nil {
		t.Fatal("expected ReferenceError assigning to an undeclared name in strict mode")
	}
}

func TestDeclarativeDeleteRespectsConfigurability(t *testing.T) {
	env := NewDeclarative(nil)
	env.CreateMutableBinding("deletable", true)
	env.InitializeBinding("deletable", value.Undefined())
	env.CreateMutableBinding("sticky", false)
	env.InitializeBinding("sticky", value.Undefined())

	if !env.DeleteBinding("deletable") {
		t.Error("expected deletable binding to be removable")
	}
	if env.HasBinding("deletable") {
		t.Error("expected deletable binding to be gone")
	}
	if env.DeleteBinding("sticky") {
		t.Error("expected non-deletable binding to survive DeleteBinding")
	}
}
