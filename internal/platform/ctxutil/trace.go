// Package ctxutil carries the identity of an inbound request down to the
// storage tiers so fallback logs can be tied back to the call that caused
// them.
package ctxutil

import "context"

type requestKey struct{}

// Request identifies one inbound call. LearnerID is the id as the client sent
// it, before it is keyed.
type Request struct {
	TraceID   string
	RequestID string
	LearnerID string
}

func WithRequest(ctx context.Context, r *Request) context.Context {
	return context.WithValue(ctx, requestKey{}, r)
}

func RequestFrom(ctx context.Context) *Request {
	if ctx == nil {
		return nil
	}
	r, _ := ctx.Value(requestKey{}).(*Request)
	return r
}

// LogFields appends the request's ids to kv. Empty ids are skipped.
func LogFields(ctx context.Context, kv ...any) []any {
	r := RequestFrom(ctx)
	if r == nil {
		return kv
	}
	if r.TraceID != "" {
		kv = append(kv, "trace_id", r.TraceID)
	}
	if r.RequestID != "" {
		kv = append(kv, "request_id", r.RequestID)
	}
	return kv
}
