// Package database records crawl history in SQLite.
//
// Each grab run gets a row in the runs table, and every download attempt
// made during the run is stored in the downloads table together with the
// camera model and capture time read from the image's EXIF data. The
// history command reads these tables back.
//
// The database lives in the XDG data directory and uses the CGO-free
// modernc.org/sqlite driver with WAL enabled.
package database
