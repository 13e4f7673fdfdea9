// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

// FromProvider builds a HALDevice on the device shared by a host
// application.
//
// Providers that expose HalDevice() and HalQueue() are used directly.
// Otherwise the provider's Device and Queue tokens must themselves be a
// hal.Device and hal.Queue.
func FromProvider(provider gpucontext.DeviceProvider) (*HALDevice, error) {
	if provider == nil {
		return nil, ErrNoHALDevice
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if hp, ok := provider.(halProvider); ok {
		device, dok := hp.HalDevice().(hal.Device)
		queue, qok := hp.HalQueue().(hal.Queue)
		if dok && qok {
			return NewHALDevice(device, queue)
		}
	}
	device, ok := provider.Device().(hal.Device)
	if !ok {
		return nil, ErrNoHALDevice
	}
	queue, ok := provider.Queue().(hal.Queue)
	if !ok {
		return nil, ErrNoHALDevice
	}
	return NewHALDevice(device, queue)
}
