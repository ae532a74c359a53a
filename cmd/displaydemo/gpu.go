//go:build !nogpu && !(js && wasm)

package main

import (
	"github.com/gogpu/wgpu"
	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/display/gfx/webgpu"
	"github.com/gogpu/display/host"
)

// gpuDevice holds the wgpu objects behind the webgpu context mode.
type gpuDevice struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
}

func openDevice() (*gpuDevice, error) {
	inst, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, err
	}
	adapter, err := inst.RequestAdapter(nil)
	if err != nil {
		inst.Release()
		return nil, err
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		inst.Release()
		return nil, err
	}
	return &gpuDevice{instance: inst, adapter: adapter, device: device}, nil
}

func (d *gpuDevice) newContext(host.Element) (any, error) {
	ctx, err := webgpu.New(d.device, webgpu.WithLabel("displaydemo"))
	if err != nil {
		return nil, err
	}
	return ctx, nil
}

func (d *gpuDevice) Release() {
	d.device.Release()
	d.adapter.Release()
	d.instance.Release()
}
