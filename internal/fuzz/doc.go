// Package fuzztests houses Go fuzz harnesses for the diagnostic text path:
// trace template rendering, sanitization and the sink encodings. They guard
// against panics, invalid UTF-8 and torn records on arbitrary input.
//
// Does not: generate corpora, write files, run the CLI.
package fuzztests
