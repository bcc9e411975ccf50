// Command speakerlink is the CLI for the speaker identity registry and
// reference matching pipeline: build the registry from seminar CSVs, match
// reference records against it, and inspect the decision cache.
package main
