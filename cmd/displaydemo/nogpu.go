//go:build nogpu || (js && wasm)

package main

import (
	"errors"

	"github.com/gogpu/display/host"
)

type gpuDevice struct{}

func openDevice() (*gpuDevice, error) {
	return nil, errors.New("built without GPU support")
}

func (d *gpuDevice) newContext(host.Element) (any, error) {
	return nil, errors.New("built without GPU support")
}

func (d *gpuDevice) Release() {}
