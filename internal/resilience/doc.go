// Package resilience groups the fault tolerance helpers used around the
// database and the search engine ping endpoints:
//
//   - circuitbreaker: gobreaker wrappers, one per ping endpoint and one
//     around the repository queries
//   - retry: exponential backoff with jitter and Retry-After support,
//     applied by callers such as the ping worker. Open circuits and rate
//     limiter refusals are never retried.
//
//	cb := circuitbreaker.New(circuitbreaker.PingConfig("www.google.com"))
//	_, err := cb.Execute(func() (interface{}, error) {
//	    return nil, sendPing()
//	})
//
//	err = retry.WithBackoff(ctx, retry.PingConfig(), func() error {
//	    return svc.Ping(ctx, "")
//	})
package resilience
