package state

import "testing"

func TestEvidenceLifecycle(t *testing.T) {
	t.Parallel()

	var ev Evidence[string]
	if ev.Resolved() || ev.IsPresent() {
		t.Error("zero evidence should be unresolved")
	}

	if !ev.SetPresent("value") {
		t.Fatal("first write refused")
	}
	if !ev.Resolved() || !ev.IsPresent() || ev.Value != "value" {
		t.Errorf("evidence after write: %+v", ev)
	}

	// Write-once: both further writes are refused.
	if ev.SetPresent("other") {
		t.Error("second SetPresent accepted")
	}
	if ev.SetFailed("late failure") {
		t.Error("SetFailed accepted on present evidence")
	}
	if ev.Value != "value" || ev.Reason != "" {
		t.Errorf("evidence mutated: %+v", ev)
	}
}

func TestEvidenceFailure(t *testing.T) {
	t.Parallel()

	var ev Evidence[int]
	if !ev.SetFailed("remote down") {
		t.Fatal("SetFailed refused")
	}
	if !ev.Resolved() || ev.IsPresent() {
		t.Errorf("failed evidence state: %+v", ev)
	}
	if ev.Reason != "remote down" {
		t.Errorf("reason = %q", ev.Reason)
	}
	if ev.SetPresent(1) {
		t.Error("SetPresent accepted on failed evidence")
	}
}

func TestEvidenceConstructors(t *testing.T) {
	t.Parallel()

	p := Present(42)
	if !p.IsPresent() || p.Value != 42 {
		t.Errorf("Present: %+v", p)
	}
	f := Failed[int]("boom")
	if !f.Resolved() || f.IsPresent() || f.Reason != "boom" {
		t.Errorf("Failed: %+v", f)
	}
}
