package services

import "time"

// Option configures a service.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for scheduling.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func applyOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
