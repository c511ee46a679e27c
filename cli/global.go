package main

// <constants>
const appName = `dupclean`

const configJSONErrMsg = `could not serialize config JSON: %s`
const resultJSONErrMsg = `could not serialize result JSON: %s`

// exit codes
const (
	exitOK        = 0
	exitUsage     = 1
	exitFatal     = 2
	exitSerialize = 6
)

// </constants>
