package domain

import "fmt"

// FetchError reports a transport-level failure reaching an upstream service
// or reading a local snapshot. Fatal to the current render cycle.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ServiceError reports a remote service that answered with a non-success
// status or an unparseable payload.
type ServiceError struct {
	Service string
	Status  string
	Detail  string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s error %s: %s", e.Service, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s error %s", e.Service, e.Status)
}
