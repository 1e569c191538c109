// Package framebuffer is the offscreen target the scene is drawn into before
// the UI shows it as an image.
package framebuffer

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ErrIncomplete is returned when the driver rejects the attachments.
var ErrIncomplete = errors.New("framebuffer incomplete")

// Target is a color texture plus depth renderbuffer.
type Target struct {
	fbo   uint32
	color uint32
	depth uint32

	width, height int
}

// New allocates a target. Sizes below one pixel are clamped.
func New(width, height int) (*Target, error) {
	t := &Target{width: max(width, 1), height: max(height, 1)}
	if err := t.allocate(); err != nil {
		t.Destroy()
		return nil, err
	}
	return t, nil
}

func (t *Target) allocate() error {
	w, h := int32(t.width), int32(t.height)

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	gl.GenTextures(1, &t.color)
	gl.BindTexture(gl.TEXTURE_2D, t.color)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.color, 0)

	gl.GenRenderbuffers(1, &t.depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, w, h)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depth)

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: status 0x%x", ErrIncomplete, status)
	}
	return nil
}

// Bind directs drawing into the target and sets the viewport to cover it.
// The returned func restores the previous framebuffer and viewport.
func (t *Target) Bind() (restore func()) {
	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, int32(t.width), int32(t.height))

	return func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
		gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
	}
}

// Texture returns the color attachment.
func (t *Target) Texture() uint32 { return t.color }

// Size returns the target size in pixels.
func (t *Target) Size() (width, height int) { return t.width, t.height }

// Resize reallocates the attachments when the size changes.
func (t *Target) Resize(width, height int) error {
	width, height = max(width, 1), max(height, 1)
	if width == t.width && height == t.height {
		return nil
	}
	t.Destroy()
	t.width, t.height = width, height
	return t.allocate()
}

// ReadImage copies the color attachment into a top-down RGBA image.
func (t *Target) ReadImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	pixels := make([]byte, t.width*t.height*4)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.ReadPixels(0, 0, int32(t.width), int32(t.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	FlipRows(img.Pix, pixels, t.width*4, t.height)
	return img
}

// FlipRows copies src into dst with the row order reversed. GL reads rows
// bottom-up.
func FlipRows(dst, src []byte, stride, rows int) {
	for y := 0; y < rows; y++ {
		s := (rows - 1 - y) * stride
		copy(dst[y*stride:(y+1)*stride], src[s:s+stride])
	}
}

// Destroy frees the GL objects. The target may be reallocated by Resize.
func (t *Target) Destroy() {
	if t.depth != 0 {
		gl.DeleteRenderbuffers(1, &t.depth)
		t.depth = 0
	}
	if t.color != 0 {
		gl.DeleteTextures(1, &t.color)
		t.color = 0
	}
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
}
