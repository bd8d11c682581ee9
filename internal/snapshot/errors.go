package snapshot

import (
	apperrors "github.com/heap-snapshot/pkg/errors"
)

func structuralf(format string, args ...interface{}) error {
	return apperrors.Newf(apperrors.CodeStructuralValidation, format, args...)
}

func referencef(format string, args ...interface{}) error {
	return apperrors.Newf(apperrors.CodeReferenceResolution, format, args...)
}

func notFoundf(format string, args ...interface{}) error {
	return apperrors.Newf(apperrors.CodeNotFound, format, args...)
}

func invalidInputf(format string, args ...interface{}) error {
	return apperrors.Newf(apperrors.CodeInvalidInput, format, args...)
}

func parseError(message string, err error) error {
	return apperrors.Wrap(apperrors.CodeParseError, message, err)
}
