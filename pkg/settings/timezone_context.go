package settings

import (
	"context"
	"time"
)

type contextKey string

const timezoneKey contextKey = "companyTimezone"

// WithTimezone stores the resolved company timezone in the context. The
// middleware resolves it once per request so that every conversion within the
// request uses the same zone.
func WithTimezone(ctx context.Context, loc *time.Location) context.Context {
	return context.WithValue(ctx, timezoneKey, loc)
}

// TimezoneFrom retrieves the company timezone resolved for this request.
func TimezoneFrom(ctx context.Context) (*time.Location, bool) {
	loc, ok := ctx.Value(timezoneKey).(*time.Location)
	return loc, ok
}
