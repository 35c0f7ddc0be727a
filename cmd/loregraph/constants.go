package main

// Process exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
)

// stdoutPath makes build write the document to standard output.
const stdoutPath = "-"
