// Package detectors holds the pattern catalog used by leakscout: an ordered,
// read-only list of named regular expressions, each tagged with a severity.
// Every pattern is applied independently; none suppresses another.
package detectors
