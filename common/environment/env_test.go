package environment_test

import (
	"testing"
	"time"

	"github.com/bdobrica/Selah/common/environment"
)

func TestStringOr(t *testing.T) {
	t.Setenv("TEST_STRING", "hello")
	if got := environment.StringOr("TEST_STRING", "default"); got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
	if got := environment.StringOr("TEST_STRING_MISSING", "default"); got != "default" {
		t.Errorf("expected %q, got %q", "default", got)
	}
}

func TestRequiredString(t *testing.T) {
	t.Setenv("TEST_REQUIRED", "value")
	v, err := environment.RequiredString("TEST_REQUIRED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "value" {
		t.Errorf("expected %q, got %q", "value", v)
	}

	_, err = environment.RequiredString("TEST_REQUIRED_MISSING")
	if err == nil {
		t.Error("expected error for missing variable, got nil")
	}
}

func TestInt64Or(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := environment.Int64Or("TEST_INT", 0); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := environment.Int64Or("TEST_INT_MISSING", 99); got != 99 {
		t.Errorf("expected 99, got %d", got)
	}
	t.Setenv("TEST_INT_BAD", "notanint")
	if got := environment.Int64Or("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("expected default 7 for bad value, got %d", got)
	}
}

func TestDurationOr(t *testing.T) {
	t.Setenv("TEST_DURATION", "90s")
	if got := environment.DurationOr("TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("expected 90s, got %v", got)
	}
	if got := environment.DurationOr("TEST_DURATION_MISSING", 5*time.Minute); got != 5*time.Minute {
		t.Errorf("expected default 5m, got %v", got)
	}
	t.Setenv("TEST_DURATION_BAD", "soon")
	if got := environment.DurationOr("TEST_DURATION_BAD", time.Second); got != time.Second {
		t.Errorf("expected default 1s for bad value, got %v", got)
	}
}

func TestStringSliceOr(t *testing.T) {
	t.Setenv("TEST_SLICE", "!a:x.org, !b:x.org ,")
	got := environment.StringSliceOr("TEST_SLICE", nil)
	if len(got) != 2 || got[0] != "!a:x.org" || got[1] != "!b:x.org" {
		t.Errorf("unexpected slice: %#v", got)
	}
	def := []string{"fallback"}
	if got := environment.StringSliceOr("TEST_SLICE_MISSING", def); len(got) != 1 || got[0] != "fallback" {
		t.Errorf("expected default slice, got %#v", got)
	}
}
