package commands

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes carried by command-layer failures so gateway hosts can map them
// to API responses without parsing messages.
const (
	codeValidationFailed = "MELODIA_CMD_VALIDATION_FAILED"
	codeCanceled         = "MELODIA_CMD_CANCELED"
	codeTimeout          = "MELODIA_CMD_TIMEOUT"
	codeContextError     = "MELODIA_CMD_CONTEXT_ERROR"
	codeExecutionFailed  = "MELODIA_CMD_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "backoffice command validation failed").
		WithTextCode(codeValidationFailed)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	switch err {
	case context.Canceled:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "backoffice command cancelled").
			WithTextCode(codeCanceled)
	case context.DeadlineExceeded:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "backoffice command deadline exceeded").
			WithTextCode(codeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "backoffice command context error").
			WithTextCode(codeContextError)
	}
}

func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "backoffice command failed").
		WithTextCode(codeExecutionFailed)
}
