// Package gbinews crawls the GBI Monthly news index, extracts article text,
// enriches articles with a language model, and stores the results locally
// in SQLite with a CSV snapshot for downstream use.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, gemini/).
package gbinews
