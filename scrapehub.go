// Package scrapehub crawls a single index page, picks out the links that look
// like articles, fetches each one and returns its visible text.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, nethtml/, http/).
package scrapehub
