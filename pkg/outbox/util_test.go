package outbox

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestTruncateError(t *testing.T) {
	t.Parallel()

	if got := truncateError(nil, 10); got != "" {
		t.Fatalf("expected empty for nil error, got %q", got)
	}

	err := errors.New("hello world")
	if got := truncateError(err, 5); got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
}

func TestTableLabel(t *testing.T) {
	t.Parallel()

	if got := TableLabel(pgx.Identifier{"public", "notifications_outbox"}); got != "public.notifications_outbox" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := TableLabel(nil); got != "" {
		t.Fatalf("expected empty label, got %q", got)
	}
}
