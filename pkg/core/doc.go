// Package core provides a small, stable facade over leakscout's internal
// engine for programs that want to scan repositories without the CLI.
//
// Example:
//
//	findings, warnings, err := core.ScanRepository(ctx, "acme", "widgets", "main", nil, 10)
//	if err != nil { /* handle */ }
//	_ = core.MarshalFindings(os.Stdout, findings)
package core
