//go:build !cgo

package main

import (
	"errors"
	"image"
)

func showWindow(_ *image.RGBA, _ string) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
