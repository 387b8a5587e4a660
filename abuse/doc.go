// Package abuse tracks how often each client address is seen and decides when
// a client has to pass an extra verification challenge.
//
// The tracker is a fixed-window counter: every address gets a persisted
// record with a first-seen timestamp and an occurrence count. Sightings
// inside the window increment the count; once the count exceeds the
// configured threshold the address is challenged. When the window elapses the
// record is reset to a fresh single sighting. Bursts straddling a window
// boundary can under- or over-count, which is acceptable for a coarse abuse
// heuristic.
package abuse
