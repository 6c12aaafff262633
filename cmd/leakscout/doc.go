// Package leakscout provides the command-line interface for leakscout.
// It wires flags and configuration files into the scan engine and renders
// the results.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/leakscout/leakscout/cmd/leakscout"
//	func main() { leakscout.Execute() }
package leakscout
