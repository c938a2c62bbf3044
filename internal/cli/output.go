package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
//
// A batch that ran to the end but lost some items exits 1, so scripts can
// tell "nothing happened" (2) from "partial output on disk" (1).
const (
	ExitSuccess      = 0 // Every item converted, every file valid, every scenario passed
	ExitFailure      = 1 // Some items failed, invalid IR files, failed scenarios
	ExitCommandError = 2 // Command error (invalid paths, bad config, no assets found)
)

// ExitError carries the process exit code out of a command's RunE.
// main unwraps it; any other error exits with ExitCommandError.
type ExitError struct {
	Code    int    // ExitFailure or ExitCommandError
	Message string // Short summary, e.g. "no prefabs found"
	Err     error  // Cause, kept for errors.Is/As (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError wrapping err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes a command's result to stdout, either as a text
// summary or as one JSON envelope line. Run events and verbose logs never
// go through Writer, so `--format json` stdout stays a single document.
type OutputFormatter struct {
	Format    string    // "text" or "json"
	Writer    io.Writer // Result output (stdout)
	ErrWriter io.Writer // Verbose/diagnostic output; Writer when nil
	Verbose   bool
}

// CLIResponse is the JSON envelope every command emits.
//
//	{"status":"ok","data":{...}}
//	{"status":"error","error":{"code":"E020","message":"..."}}
//	{"status":"error","data":{...},"error":{"code":"E021",...}}
//
// The third form is a partial result: the run finished and data describes
// it, but some items failed.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // result payload, also set on partial results
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error half of the envelope. Codes are listed in errors.go.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E020", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a result. Text output prints data with fmt, so result
// types implement fmt.Stringer.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.isJSON() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs a failure that produced no result. Details are printed in
// text mode only with --verbose.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.isJSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	f.errorLine(code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Partial outputs a result that carries failures: the summary of what was
// done, then the error that explains the non-zero exit.
func (f *OutputFormatter) Partial(data interface{}, code, message string) error {
	if f.isJSON() {
		return f.encode(CLIResponse{
			Status: "error",
			Data:   data,
			Error:  &CLIError{Code: code, Message: message},
		})
	}
	fmt.Fprintln(f.Writer, data)
	f.errorLine(code, message)
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// It always goes to the diagnostic writer so it cannot corrupt JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.errWriter(), format+"\n", args...)
}

func (f *OutputFormatter) isJSON() bool {
	return f.Format == "json"
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

func (f *OutputFormatter) errorLine(code, message string) {
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
