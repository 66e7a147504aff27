// Package repository defines the data access interfaces for the session
// archive.
//
// Porting work is comparative by nature: a baseline session is measured
// once and then re-analyzed against every subsequent "after" session.
// The archive persists raw sessions and their computed reports so that
// comparisons never require re-measuring.
//
// The Archive interface defines all access methods for session and
// report records. The actual implementation is in the sqlite subpackage,
// which stores each record as a JSON document alongside indexed metadata
// columns, uses WAL mode for concurrency and migrates its schema on
// startup.
package repository
