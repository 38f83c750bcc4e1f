// Package errors provides structured error handling for locale loading.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Manifest errors
	CodeManifestRead    Code = "MANIFEST_READ"
	CodeManifestInvalid Code = "MANIFEST_INVALID"

	// Locale file errors
	CodeLocaleFileRead    Code = "LOCALE_FILE_READ"
	CodeLocaleFileInvalid Code = "LOCALE_FILE_INVALID"
	CodeLocaleInvalid     Code = "LOCALE_INVALID"
	CodeLocaleUnsupported Code = "LOCALE_UNSUPPORTED"

	// Rendering errors
	CodeInitialProps Code = "INITIAL_PROPS"
)

// HTTPStatus maps an error code to the response status used by web handlers.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeLocaleInvalid:
		return http.StatusBadRequest
	case CodeLocaleUnsupported:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
