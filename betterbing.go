// Package betterbing provides a bounded, single-level site crawler.
// Given a seed URL it discovers same-site links on that one page, fetches
// each of them, extracts the visible text, and writes one text file per page
// into an output directory that downstream indexers read as-is.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, fs/).
package betterbing
