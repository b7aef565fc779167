// Package fetch issues the HTTP GET requests of a crawl.
//
// One Client is created per run and reused for every page and download,
// so connections are pooled and cookies set by a site are sent back on
// later requests. An optional SOCKS5 proxy routes all traffic.
//
// Non-2xx responses are reported as a *StatusError alongside the
// response, so callers can tell a 503 (worth one retry) from other
// failures:
//
//	resp, err := client.Get(ctx, "http://example.com/")
//	if fetch.IsServiceUnavailable(err) {
//		// back off and retry once
//	}
package fetch
