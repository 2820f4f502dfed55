package fail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	api "github.com/deepagents/control/api/go/client"
	"github.com/deepagents/control/frontend/cli/pkg/terminal"
	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
)

// UserFacingError wraps an error with a message and remedies meant for the
// person at the terminal.
type UserFacingError struct {
	Cause       error
	UserMessage string
	Remedies    []string
	TechDetails string
}

func (e *UserFacingError) Error() string {
	var msg strings.Builder
	msg.WriteString(terminal.Bold(e.UserMessage))
	msg.WriteString("\n")

	if len(e.Remedies) > 0 {
		msg.WriteString("\nTry:\n")
		for i, remedy := range e.Remedies {
			fmt.Fprintf(&msg, "  %d. %s\n", i+1, remedy)
		}
	}

	if e.TechDetails != "" {
		fmt.Fprintf(&msg, "\nDetails: %s\n", e.TechDetails)
	}
	return msg.String()
}

func (e *UserFacingError) Unwrap() error {
	return e.Cause
}

func newUserFacing(cause error, message string, remedies ...string) *UserFacingError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &UserFacingError{
		Cause:       cause,
		UserMessage: message,
		Remedies:    remedies,
		TechDetails: details,
	}
}

// HandleError reports unexpected failures to sentry and turns err into
// something a user can act on. Usage output is suppressed since the command
// line itself was valid.
func HandleError(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	if cmd != nil {
		cmd.SilenceUsage = true
	}

	if code := api.StatusCode(err); code == 0 || code >= http.StatusInternalServerError {
		sentry.CaptureException(err)
	}
	return TransformError(err)
}

func TransformError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}

	var userFacing *UserFacingError
	if errors.As(err, &userFacing) {
		return err
	}

	switch api.StatusCode(err) {
	case http.StatusUnauthorized:
		return newUserFacing(err, "You are not logged in or your session has expired",
			"Log in again: deepagents login --username <name>")
	case http.StatusTooManyRequests:
		return newUserFacing(err, "The server is rate limiting your requests",
			"Wait a few seconds and try again")
	case http.StatusBadRequest:
		if strings.Contains(err.Error(), "circular delegation") {
			return newUserFacing(err, "This delegation would create a cycle",
				"Inspect the existing delegations: deepagents subagent list <agent>",
				"Remove the edge that closes the loop before adding this one")
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such host"):
		return newUserFacing(err, "Cannot connect to the DeepAgents server",
			"Check the spelling of the server address",
			"Log in again with the correct address: deepagents login --server <url>")
	case strings.Contains(msg, "connection refused"):
		return newUserFacing(err, "Cannot connect to the DeepAgents server",
			"Check that the server is running: deepagents serve",
			"Verify the address of the current context: deepagents config show")
	case strings.Contains(msg, "address already in use"):
		return newUserFacing(err, "The listen address is already in use",
			"Choose a different address: deepagents serve --address 127.0.0.1:8001",
			"Stop the process bound to this port")
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "operation not permitted"):
		return newUserFacing(err, "Operation not permitted",
			"Check the permissions of the config and data directories",
			"Check the permissions of the database file")
	}
	return err
}
