// Package crawler drives a picgrab crawl.
//
// # Architecture
//
// A Crawler owns the frontier and visited set of one run. It pops URLs in
// FIFO order, fetches each one, extracts link candidates from the body and
// runs every candidate it has not seen before through the policy matcher.
// Follow-eligible candidates go to the frontier tail; download-eligible
// ones go to the download manager.
//
// # States
//
//	Idle -> Running -> Draining -> Finished
//	               \-> Suspended
//
// Running lasts while the frontier is non-empty. An empty frontier moves
// the crawler to Draining, where the final snapshot is written, and then to
// Finished. Cancelling the context moves it to Suspended at the next loop
// boundary; the in-flight fetch is not interrupted. Both exits save the
// frontier and visited set when a state store is configured.
//
// # Failure handling
//
// A 503 response is retried once after a randomized backoff. Any other
// failure abandons the URL: it stays visited and is not queued again in
// this run.
//
// # Usage
//
//	c := crawler.New(client, matcher, downloads,
//		crawler.WithStore(state.NewStore(visitedFile, frontierFile)),
//		crawler.WithSaveEvery(100),
//	)
//	report := c.Run(ctx, seeds)
package crawler
