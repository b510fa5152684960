package state

import (
	"errors"
	"testing"
)

func TestSetWritesThroughExistingMaps(t *testing.T) {
	st := New(nil)
	if err := st.Set("current_phase", "Conceptualization"); err != nil {
		t.Fatalf("set top-level key: %v", err)
	}
	if st.Phase() != "Conceptualization" {
		t.Fatalf("phase not updated: %q", st.Phase())
	}
	if err := st.Set("code_modules_status.auth", "coding"); err != nil {
		t.Fatalf("set nested key: %v", err)
	}
	value, ok := st.Get("code_modules_status.auth")
	if !ok || value != "coding" {
		t.Fatalf("nested read: got %v (ok=%v)", value, ok)
	}
}

func TestSetSkipsInvalidPaths(t *testing.T) {
	st := New(nil)
	if err := st.Set("no_such_parent.child", 1); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath for missing parent, got %v", err)
	}
	// status is a string, so writing through it must be refused.
	if err := st.Set("status.inner", 1); !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath through non-map, got %v", err)
	}
	if st.Status() != StatusIdle {
		t.Fatalf("failed write must not mutate state, status=%q", st.Status())
	}
}

func TestRetryAccessors(t *testing.T) {
	st := New(nil)
	if st.ModuleRetries("ctx-1") != 0 {
		t.Fatalf("expected zero retries for unseen context")
	}
	if err := st.Set("module_test_retries.ctx-1", 2); err != nil {
		t.Fatalf("set retries: %v", err)
	}
	if st.ModuleRetries("ctx-1") != 2 {
		t.Fatalf("expected 2 retries, got %d", st.ModuleRetries("ctx-1"))
	}
	if err := st.Set("deployment_retries", 3); err != nil {
		t.Fatalf("set deployment retries: %v", err)
	}
	if st.DeploymentRetries() != 3 {
		t.Fatalf("expected 3 deployment retries, got %d", st.DeploymentRetries())
	}
}

func TestPendingApprovalContext(t *testing.T) {
	st := New(nil)
	st.SetPendingApprovalContext("ctx-9")
	if st.PendingApprovalContext() != "ctx-9" {
		t.Fatalf("pending context not recorded")
	}
	st.SetPendingApprovalContext("")
	if st.PendingApprovalContext() != "" {
		t.Fatalf("pending context not cleared")
	}
}
