package ctxutil

import (
	"context"
	"testing"
)

func TestLogFields(t *testing.T) {
	if got := LogFields(context.Background(), "kind", "telemetry"); len(got) != 2 {
		t.Fatalf("no request: got %v", got)
	}
	ctx := WithRequest(context.Background(), &Request{TraceID: "t1", RequestID: "r1", LearnerID: "u1"})
	got := LogFields(ctx, "kind", "telemetry")
	want := []any{"kind", "telemetry", "trace_id", "t1", "request_id", "r1"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if RequestFrom(nil) != nil {
		t.Fatalf("nil context must yield nil request")
	}
}
