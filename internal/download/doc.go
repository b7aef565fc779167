// Package download saves download-eligible URLs to the target directory.
//
// A file name is derived from the last segment of the URL path. Names
// longer than MaxFilenameLength are replaced by the MD5 of the name
// (extension kept), which is stable across runs so repeated crawls keep
// finding the same file. Before any network access the name is looked up
// in every "ignore duplicates in" directory; an existing file means the
// URL is skipped for good. Only names are compared, never content.
package download
