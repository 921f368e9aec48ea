package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// File store & outbound mail errors
var (
	ErrStorageFailure    = errors.New("file storage failure")
	ErrMailDelivery      = errors.New("mail delivery failed")
	ErrConfigMissing     = errors.New("configuration missing")
	ErrConfigInvalid     = errors.New("configuration invalid")
	ErrUnknownCollection = errors.New("unknown collection")
)

// NewStorageError wraps a failure of the underlying blob store.
func NewStorageError(operation, path string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrStorageFailure,
		Details:    fmt.Sprintf("Failed to %s %s", operation, path),
		Cause:      cause,
	}
}

func NewMailDeliveryError(recipient string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrMailDelivery,
		Details:    fmt.Sprintf("Could not deliver email to %s", recipient),
		Cause:      cause,
	}
}

func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigInvalid,
		Details:    fmt.Sprintf("Invalid configuration for %s", configName),
		Cause:      cause,
	}
}

func NewConfigMissingError(key string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Missing configuration value %s", key),
		Field:      key,
	}
}

func NewUnknownCollectionError(name string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%w: %w", ErrUnknownCollection, ErrNotFound),
		Details:    fmt.Sprintf("Collection %q cannot be reordered", name),
		Field:      "collection",
	}
}

func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

func IsMailDeliveryError(err error) bool {
	return errors.Is(err, ErrMailDelivery)
}

func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfigInvalid) || errors.Is(err, ErrConfigMissing)
}
