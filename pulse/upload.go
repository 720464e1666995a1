package pulse

import (
	"errors"
	"fmt"

	"github.com/oliverbestmann/modelview/dynarray"
	"github.com/oliverbestmann/webgpu/wgpu"
)

var ErrEmptyBuffer = errors.New("buffer is empty")

// BufferCreator is implemented by *wgpu.Device and therefore also by *Context.
type BufferCreator interface {
	CreateBufferInit(desc *wgpu.BufferInitDescriptor) (*wgpu.Buffer, error)
}

// UploadBuffer copies the valid elements of buf into a new gpu buffer.
// The contents are passed as one contiguous block, buf can be released
// as soon as UploadBuffer returns.
func UploadBuffer[T any](dev BufferCreator, label string, usage wgpu.BufferUsage, buf *dynarray.Buffer[T]) (*wgpu.Buffer, error) {
	if buf == nil || buf.Len() == 0 {
		return nil, fmt.Errorf("upload %q: %w", label, ErrEmptyBuffer)
	}

	gpuBuffer, err := dev.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: wgpu.ToBytes(buf.Data()),
		Usage:    usage,
	})

	if err != nil {
		return nil, fmt.Errorf("upload %q: %w", label, err)
	}

	return gpuBuffer, nil
}
