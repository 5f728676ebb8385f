package provider

import "fmt"

// ConfigError reports missing or invalid provider credentials. It is raised
// before any network call is attempted.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// HTTPError reports a non-2xx response from the model vendor.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("AI API error (%d): %s", e.StatusCode, e.Body)
}

// ConnectError reports a transport-level failure reaching the vendor before
// any response arrived.
type ConnectError struct {
	URL string
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("AI API connection failed: %v (url: %s)", e.Err, e.URL)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}
