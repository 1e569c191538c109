package input

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct{ calls []string }

func (r *recorder) TouchStart(x, y float32) { r.calls = append(r.calls, fmt.Sprintf("start %v,%v", x, y)) }
func (r *recorder) TouchMove(x, y float32)  { r.calls = append(r.calls, fmt.Sprintf("move %v,%v", x, y)) }
func (r *recorder) TouchEnd()               { r.calls = append(r.calls, "end") }

func TestPointerDrag(t *testing.T) {
	p := New()
	rec := &recorder{}

	frames := []struct {
		down, hovered bool
		x, y          float32
	}{
		{false, true, 5, 5},   // hover only
		{true, true, 10, 10},  // press
		{true, true, 10, 10},  // held still
		{true, true, 20, 15},  // drag
		{true, false, -4, 15}, // drag leaves the viewport
		{false, false, -4, 15},
		{false, true, 8, 8},
	}
	for _, f := range frames {
		Dispatch(p.Update(f.down, f.hovered, f.x, f.y), rec)
	}

	assert.Equal(t, []string{"start 10,10", "move 20,15", "move -4,15", "end"}, rec.calls)
	assert.Empty(t, p.Update(false, true, 9, 9), "no drag after release")
}

func TestPointerPressOutsideIgnored(t *testing.T) {
	p := New()
	assert.Empty(t, p.Update(true, false, 1, 1))
	assert.Empty(t, p.Update(true, true, 2, 2), "press began outside the viewport")
	assert.Empty(t, p.Update(false, true, 2, 2))
	assert.Empty(t, p.Update(false, true, 3, 3))
}

func TestEventTypeString(t *testing.T) {
	assert.Equal(t, "TouchStart", EventTouchStart.String())
	assert.Equal(t, "TouchMove", EventTouchMove.String())
	assert.Equal(t, "TouchEnd", EventTouchEnd.String())
	assert.Equal(t, "None", EventNone.String())
}
