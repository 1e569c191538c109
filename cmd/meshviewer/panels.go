package main

import (
	"fmt"
	"math"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/meshview/internal/engine/input"
	"github.com/Faultbox/meshview/internal/engine/ui"
	"github.com/Faultbox/meshview/internal/viewer"
)

const (
	statusBarHeight = float32(26)
	positionRange   = float32(100)
)

func (app *App) drawPanels() {
	workPos, workSize := ui.WorkArea()
	menuWidth := float32(app.cfg.Window.MenuWidth)
	contentHeight := workSize.Y - statusBarHeight

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(imgui.NewVec2(menuWidth, contentHeight))
	if imgui.BeginV("Models", nil, flags) {
		if imgui.Button("Open STL...") {
			app.openFileDialog()
		}
		imgui.Separator()
		app.drawCatalog()
		imgui.Spacing()
		app.drawObjectMenu()
		imgui.Spacing()
		app.drawControls()
	}
	imgui.End()

	sceneW := workSize.X - menuWidth
	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+menuWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(sceneW, contentHeight))
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	sceneFlags := flags | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoScrollWithMouse
	if imgui.BeginV("##Scene", nil, sceneFlags) {
		app.drawScene(sceneW, contentHeight)
	}
	imgui.End()
	imgui.PopStyleVar()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, statusBarHeight))
	if imgui.BeginV("##StatusBar", nil, flags|imgui.WindowFlagsNoTitleBar|imgui.WindowFlagsNoScrollbar) {
		app.drawStatusBar()
	}
	imgui.End()
}

// drawScene shows the rendered frame and feeds mouse drags over it to the
// gesture machine as touches.
func (app *App) drawScene(w, h float32) {
	app.resizeViewport(int(w), int(h))

	origin, hovered := ui.SceneImage(app.renderer.Texture(), w, h)
	x, y, down := ui.LocalMouse(origin)
	input.Dispatch(app.pointer.Update(down, hovered, x, y), app.viewer)
}

// drawCatalog renders the manifest as an accordion: clicking a category
// toggles it, clicking a file loads it.
func (app *App) drawCatalog() {
	menu := app.viewer.Catalog()
	cats := menu.Categories()
	if len(cats) == 0 {
		imgui.TextDisabled("No models")
		return
	}

	for _, c := range cats {
		arrow := "+ "
		if menu.Expanded(c.Name) {
			arrow = "- "
		}
		if imgui.SelectableBoolV(arrow+c.Name+"##cat", false, 0, imgui.NewVec2(0, 0)) {
			menu.Toggle(c.Name)
		}
		if !menu.Expanded(c.Name) {
			continue
		}
		for _, e := range menu.Entries(c.Name) {
			label := "    " + e.File
			if app.viewer.Loading(e.Name()) {
				label += " (loading)"
			}
			if imgui.SelectableBoolV(label+"##"+c.Name+"/"+e.File, false, 0, imgui.NewVec2(0, 0)) {
				app.viewer.Load(e)
			}
		}
	}
}

func (app *App) drawObjectMenu() {
	if !imgui.TreeNodeExStrV("Loaded objects", imgui.TreeNodeFlagsDefaultOpen) {
		return
	}
	defer imgui.TreePop()

	items := app.viewer.ObjectMenu()
	if len(items) == 0 {
		imgui.TextDisabled("Nothing loaded")
		return
	}

	var remove string
	for _, item := range items {
		if imgui.Button("x##rm-" + item.Name) {
			remove = item.Name
		}
		imgui.SameLine()
		if imgui.SelectableBoolV(item.Name+"##obj", item.Selected, 0, imgui.NewVec2(0, 0)) {
			if item.Selected {
				app.viewer.Deselect()
			} else {
				app.viewer.Select(item.Name)
			}
		}
	}
	if remove != "" {
		app.viewer.Remove(remove)
	}
}

// drawControls holds the numeric inputs. They write straight to the scene
// and bypass the gesture machine.
func (app *App) drawControls() {
	if !imgui.TreeNodeExStrV("Controls", imgui.TreeNodeFlagsDefaultOpen) {
		return
	}
	defer imgui.TreePop()

	v := app.viewer
	if sel := v.Selected(); sel != nil {
		imgui.Text(sel.Name)
		for i, label := range []string{"X", "Y", "Z"} {
			p := sel.Position[i]
			if imgui.SliderFloatV(label+"##pos", &p, -positionRange, positionRange, "%.1f", imgui.SliderFlagsNone) {
				v.SetObjectPosition(viewer.Axis(i), p)
			}
		}
	} else {
		imgui.TextDisabled("Select an object to move it")
	}
	imgui.Separator()

	cfg := v.Config().Viewer
	zoom := v.Camera().Zoom()
	if imgui.SliderFloatV("Zoom", &zoom, -cfg.Far/4, cfg.Far/4, "%.1f", imgui.SliderFlagsNone) {
		v.SetZoom(zoom)
	}

	// One full turn each way.
	limit := float32(math.Pi) * cfg.RotationSoftenFactor
	for _, axis := range []viewer.Axis{viewer.AxisX, viewer.AxisY} {
		r := v.SceneRotationInput(axis)
		label := fmt.Sprintf("Rotate %c", 'X'+rune(axis))
		if imgui.SliderFloatV(label, &r, -limit, limit, "%.0f", imgui.SliderFlagsNone) {
			v.SetSceneRotation(axis, r)
		}
	}

	imgui.Separator()
	if imgui.Button("Save snapshot") {
		app.saveSnapshot()
	}
}

func (app *App) drawStatusBar() {
	v := app.viewer
	imgui.Text(fmt.Sprintf("Objects: %d", v.Scene().Objects.Len()))
	imgui.SameLine()
	imgui.TextDisabled(fmt.Sprintf("| GPU meshes: %d | Frames: %d | %s",
		app.renderer.MeshCount(), v.Frames(), v.Gesture().State))
	if v.Busy() {
		imgui.SameLine()
		imgui.TextColored(imgui.NewVec4(0.9, 0.8, 0.3, 1), "Loading...")
	}
	if app.statusMsg != "" && time.Since(app.statusTime) < 3*time.Second {
		imgui.SameLine()
		imgui.TextDisabled("| " + app.statusMsg)
	}
}
