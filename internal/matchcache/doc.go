// Package matchcache memoizes oracle verdicts keyed by batch content hash.
// It layers an in-memory map over the SQLite store with write-behind
// persistence so a hot matching run never blocks on disk per lookup.
package matchcache
