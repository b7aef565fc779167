// Package extract finds link candidates in fetched page text.
//
// Discovery is regex based over the raw response text rather than a
// parsed document: bare http(s) URLs, href attributes and src attributes
// are all reported, in body order, resolved against the page URL.
// Duplicate candidates are emitted as found; deduplication is the
// crawler's job.
package extract
