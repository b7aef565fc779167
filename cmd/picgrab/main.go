// Package main provides the entry point for the picgrab CLI.
//
// picgrab walks a link tree starting from one or more seed URLs and saves
// every linked file that matches a download pattern, in the manner of a
// minimal "wget --mirror" for image galleries.
//
// Usage:
//
//	picgrab grab http://example.com/gallery/
//	picgrab grab -c picgrab.yaml
//
// See --help for all available options.
package main

func main() {
	Execute()
}
