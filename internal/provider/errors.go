package provider

import "errors"

var (
	// ErrProviderNotFound is returned when a provider cannot be found by name
	ErrProviderNotFound = errors.New("provider not found")
	// ErrProviderDisabled is returned when a disabled provider is run
	ErrProviderDisabled = errors.New("provider disabled")
	// ErrProviderBusy is returned when a provider is already running
	ErrProviderBusy = errors.New("provider already running")
)
