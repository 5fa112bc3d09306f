package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nicholas-Eugene/cluster-web-frontend/api"
	"github.com/Nicholas-Eugene/cluster-web-frontend/export"
	"github.com/Nicholas-Eugene/cluster-web-frontend/internal/output"
)

func usageError(summary, suggestion string) error {
	return &output.CLIError{Summary: summary, Suggestion: suggestion, ExitCode: output.ExitUsageError}
}

// exactArgs is cobra.ExactArgs with a usage exit code
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err.Error(), "Run '"+cmd.CommandPath()+" --help' for usage")
		}
		return nil
	}
}

// maxArgs is cobra.MaximumNArgs with a usage exit code
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return usageError(err.Error(), "Run '"+cmd.CommandPath()+" --help' for usage")
		}
		return nil
	}
}

// backendError turns a client or export failure into a CLIError. The
// localized backend message becomes the summary.
func backendError(action string, err error) error {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	code := output.ExitBackend
	if errors.Is(err, context.DeadlineExceeded) {
		code = output.ExitTimeout
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message == api.MsgPollingTimedOut {
			code = output.ExitTimeout
		}
		detail := action
		if apiErr.StatusCode != 0 {
			detail = fmt.Sprintf("%s (HTTP %d)", action, apiErr.StatusCode)
		}
		if apiErr.Err != nil {
			detail += ": " + apiErr.Err.Error()
		}
		return &output.CLIError{
			Summary:    apiErr.Message,
			Detail:     detail,
			Suggestion: suggestionFor(apiErr),
			ExitCode:   code,
			Err:        err,
		}
	}

	var exportErr *export.Error
	if errors.As(err, &exportErr) {
		return &output.CLIError{Summary: exportErr.Message, Detail: action, ExitCode: code, Err: err}
	}

	return &output.CLIError{Summary: action, Detail: err.Error(), ExitCode: output.ExitGeneral, Err: err}
}

func suggestionFor(err *api.APIError) string {
	if err.Message == api.MsgConnection {
		return "Check that the backend is running and api.base_url is correct"
	}
	switch err.StatusCode {
	case 401, 403:
		return "Set api.auth_token or " + api.EnvAuthToken
	case 404:
		return "Check the session ID; sessions expire on the backend"
	default:
		return ""
	}
}
