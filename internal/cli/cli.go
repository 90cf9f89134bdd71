package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gemini-chat/internal/llm"
)

// Execute runs the root command and maps the outcome to a process exit code:
// 0 for a normal end of session, 1 for a fatal startup failure.
func Execute(ctx context.Context, args []string, in io.Reader, out io.Writer, errOut io.Writer) int {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	err = classify(err)
	printError(errOut, err)
	return exitCode(err)
}

// classify marks errors that never went through the llm package, such as
// cobra's argument and flag errors, as configuration failures.
func classify(err error) error {
	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		return err
	}
	return llm.ConfigError("", err)
}

func exitCode(err error) int {
	if llm.IsFatal(err) {
		return 1
	}
	return 0
}

// missingCredentialError names the variable the user has to set.
type missingCredentialError struct {
	env string
}

func (e *missingCredentialError) Error() string {
	return e.env + " environment variable not found"
}

func printError(out io.Writer, err error) {
	switch llm.KindOf(err) {
	case llm.KindCredential:
		fmt.Fprintf(out, "Error: %v.\n", err)
		var missing *missingCredentialError
		if errors.As(err, &missing) {
			fmt.Fprintf(out, "Please create a %s file with %s='YOUR_API_KEY'\n", envFile, missing.env)
		}
	default:
		fmt.Fprintf(out, "Error: %v\n", err)
	}
}
