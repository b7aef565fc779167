// Package model defines the data structures shared by the crawler, the
// history database and the report writers.
//
// The types are plain structs with JSON tags so a run report can be
// stored in the database as JSON and printed with --json unchanged.
package model
