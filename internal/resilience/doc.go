// Package resilience groups the fault tolerance helpers used around outbound
// calls (web fetches, transcript fetches and LLM providers).
//
// Only circuit breaking lives here: a tripped breaker fails calls fast while a
// dependency is down. Nothing in this tree retries a failed call.
//
//	cb := circuitbreaker.New(circuitbreaker.ContentFetchConfig())
//	page, err := circuitbreaker.Do(cb, func() (*response, error) {
//	    return fetchPage(ctx, url)
//	})
package resilience
