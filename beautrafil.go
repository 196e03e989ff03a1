// Package beautrafil renders web pages in a headless browser and extracts
// their content for storage. The fetch layer drives one browser session per
// URL, optionally applying a spoofed browsing identity, blocking media
// requests, and retrying navigations that are rejected with HTTP 403. The
// extraction layer combines article text from trafilatura with the raw
// <meta> tags of the page, and results are persisted to SQLite.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, trafilatura/, sqlite/).
package beautrafil
