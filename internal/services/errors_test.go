package services_test

import (
	"errors"
	"strings"
	"testing"

	"ludotheque/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrStoreWrite, "persist", "save game", "insert failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrStoreWrite) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"persist", "save game", "insert failed", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestSeverityMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{services.Wrap(services.ErrNoMatch, "remote", "search", "zelda", nil), services.SeverityWarn},
		{services.Wrap(services.ErrInvalidID, "remote", "fetch", "id 9", nil), services.SeverityWarn},
		{services.Wrap(services.ErrTranslation, "translate", "", "", errors.New("x")), services.SeverityWarn},
		{services.Wrap(services.ErrStoreWrite, "persist", "", "", errors.New("x")), services.SeverityError},
		{services.Wrap(services.ErrRemoteUnreachable, "remote", "", "", errors.New("x")), services.SeverityError},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := services.Severity(tc.err); got != tc.want {
			t.Fatalf("Severity(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestIsFatalOnlyForUnreachableStore(t *testing.T) {
	if !services.IsFatal(services.Wrap(services.ErrStoreUnreachable, "store", "open", "", errors.New("x"))) {
		t.Fatal("expected unreachable store to be fatal")
	}
	if services.IsFatal(services.Wrap(services.ErrStoreRead, "store", "load", "", nil)) {
		t.Fatal("expected read failure to be recoverable")
	}
}
