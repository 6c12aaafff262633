// Package engine contains the core scanning logic for leakscout. It lists a
// remote repository tree, filters paths, retrieves eligible files under a
// concurrency bound, runs the pattern catalog over them and returns
// structured findings. This package is internal; external consumers should
// use the stable facade in pkg/core.
package engine
