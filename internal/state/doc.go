// Package state holds the crawl frontier and visited set and persists
// them as JSON arrays so an interrupted crawl can resume.
//
// Both structures are owned by a single crawler goroutine and are not
// safe for concurrent use.
package state
