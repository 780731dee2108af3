package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/sharp-edge/internal/models"
)

// OutcomeFeed returns real game outcomes for one league over a recent window
type OutcomeFeed interface {
	// FetchResults returns completed and in-progress games from the last lookbackDays days
	FetchResults(ctx context.Context, league string, lookbackDays int) ([]models.GameResult, error)

	// Name returns the name of the feed
	Name() string
}

// DataSourceError represents errors from feed operations
type DataSourceError struct {
	Source  string // Feed name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string
	Err     error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (%v)", e.Source, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Is matches the code-level sentinels below
func (e DataSourceError) Is(target error) bool {
	switch target {
	case ErrRateLimitExceeded:
		return e.Code == ErrCodeRateLimitExceeded
	case ErrAuthenticationFailed:
		return e.Code == ErrCodeAuthenticationFailed
	case ErrNotFound:
		return e.Code == ErrCodeNotFound
	case ErrInvalidData:
		return e.Code == ErrCodeInvalidData
	case ErrNetworkError:
		return e.Code == ErrCodeNetworkError
	case ErrServerError:
		return e.Code == ErrCodeServerError
	case ErrUnsupportedLeague:
		return e.Code == ErrCodeUnsupportedLeague
	}
	return false
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnsupportedLeague    = "unsupported_league"
	ErrCodeUnknown              = "unknown"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
	ErrUnsupportedLeague    = errors.New("league not supported by feed")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// statusError maps a non-200 response to a DataSourceError
func statusError(source string, status int, body string) DataSourceError {
	code := ErrCodeServerError
	switch {
	case status == 401 || status == 403:
		code = ErrCodeAuthenticationFailed
	case status == 404:
		code = ErrCodeNotFound
	case status == 429:
		code = ErrCodeRateLimitExceeded
	case status >= 400 && status < 500:
		code = ErrCodeUnknown
	}
	return NewDataSourceError(source, code, fmt.Sprintf("unexpected status %d: %s", status, body), nil)
}
