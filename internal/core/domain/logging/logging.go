package logging

import "context"

type LogEntry struct {
	Key   string
	Value interface{}
}

func Entry(k string, v interface{}) LogEntry {
	return LogEntry{Key: k, Value: v}
}

type Logger interface {
	Debug(ctx context.Context, msg string, entries ...LogEntry)
	Info(ctx context.Context, msg string, entries ...LogEntry)
	Warning(ctx context.Context, msg string, entries ...LogEntry)
	Error(ctx context.Context, msg string, entries ...LogEntry)
}

// Request describes the inbound request a log record belongs to.
type Request struct {
	ID         string
	RemoteAddr string
}

type requestContextKey struct{}

func WithRequest(ctx context.Context, r Request) context.Context {
	return context.WithValue(ctx, requestContextKey{}, r)
}

func RequestFromContext(ctx context.Context) (r Request, ok bool) {
	if ctx == nil {
		return r, false
	}
	r, ok = ctx.Value(requestContextKey{}).(Request)
	return r, ok
}
