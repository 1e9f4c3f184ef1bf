package utils

import (
	"errors"
	"fmt"

	"github.com/notargets/gocca"
)

// DefaultBackends lists the OCCA device properties tried by CreateTestDevice,
// preferring parallel backends.
var DefaultBackends = []string{
	`{"mode": "OpenMP"}`,
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "Serial"}`,
}

// CreateDevice returns the first OCCA device that can be created from the
// given property strings
func CreateDevice(backends ...string) (*gocca.OCCADevice, error) {
	lastErr := errors.New("no backends given")
	for _, props := range backends {
		device, err := gocca.NewDevice(props)
		if err == nil {
			return device, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("no OCCA backend available: %w", lastErr)
}

// CreateTestDevice creates a Device for testing, preferring parallel backends
func CreateTestDevice() *gocca.OCCADevice {
	device, err := CreateDevice(DefaultBackends...)
	if err != nil {
		// Serial is always compiled into OCCA, so this is a broken install
		panic(fmt.Sprintf("Failed to create any Device: %v", err))
	}
	fmt.Printf("Created %s Device\n", device.Mode())
	return device
}
