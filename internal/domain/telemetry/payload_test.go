package telemetry

import (
	"encoding/json"
	"math"
	"testing"
)

func TestNewPayload(t *testing.T) {
	p, err := NewPayload(map[string]any{"goal": "read ch. 3"})
	if err != nil {
		t.Fatalf("NewPayload: %v", err)
	}
	if string(p) != `{"goal":"read ch. 3"}` {
		t.Fatalf("unexpected payload %s", p)
	}
	if _, err := NewPayload(math.Inf(1)); err == nil {
		t.Fatalf("expected error for non-serializable value")
	}
	if _, err := NewPayload(make(chan int)); err == nil {
		t.Fatalf("expected error for channel")
	}
}

func TestParsePayload(t *testing.T) {
	for _, raw := range []string{`5`, `"x"`, `[1,2]`, ` {"a":true} `, `null`} {
		if _, err := ParsePayload([]byte(raw)); err != nil {
			t.Fatalf("ParsePayload(%s): %v", raw, err)
		}
	}
	for _, raw := range []string{``, `{`, `nope`} {
		if _, err := ParsePayload([]byte(raw)); err == nil {
			t.Fatalf("ParsePayload(%q): expected error", raw)
		}
	}
}

func TestPayloadScan(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{int64(5), "5"},
		{2.5, "2.5"},
		{true, "true"},
		{`{"a":1}`, `{"a":1}`},
		{[]byte(`[1]`), `[1]`},
	}
	for _, tc := range cases {
		var p Payload
		if err := p.Scan(tc.in); err != nil {
			t.Fatalf("Scan(%v): %v", tc.in, err)
		}
		if string(p) != tc.want {
			t.Fatalf("Scan(%v): got=%s want=%s", tc.in, p, tc.want)
		}
	}
}

func TestPayloadRoundTripInStruct(t *testing.T) {
	rec := Record{DataType: "goal", Value: Payload(`{"text":"hi"}`)}
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Record
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if string(back.Value) != `{"text":"hi"}` {
		t.Fatalf("value mismatch: %s", back.Value)
	}
	if !Payload(nil).IsNull() || !Payload("null").IsNull() || Payload("0").IsNull() {
		t.Fatalf("IsNull mismatch")
	}
}
