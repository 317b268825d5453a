// Package store holds the bearer credential slot shared by every caller of an
// auth.Manager, and the Sink implementations used to persist acquired
// credentials between process runs.
//
// A Slot is read concurrently without blocking on network activity; all writes
// go through a Guard obtained with Slot.Acquire, which also serialises
// credential acquisition.
package store
