package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/1broseidon/bismuth/internal/controller"
	"github.com/1broseidon/bismuth/internal/ipc"
	"github.com/1broseidon/bismuth/internal/tiling"
)

// requestTimeout bounds how long an IPC request waits for the loop.
const requestTimeout = 5 * time.Second

var _ ipc.Handler = (*Daemon)(nil)

func (d *Daemon) do(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	return d.loop.Do(ctx, fn)
}

func geometry(r tiling.Rect) ipc.Geometry {
	return ipc.Geometry{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Status reports the current surface and window counts.
func (d *Daemon) Status() (*ipc.StatusData, error) {
	var out ipc.StatusData
	err := d.do(func() error {
		e := d.ctl.Engine()
		if srf, ok := e.CurrentSurface(); ok {
			out.CurrentSurface = srf.ID.String()
			out.ActiveLayout = d.layouts.CurrentLayout(srf.ID).Kind.String()
			out.TileCount = len(e.Windows().VisibleTiles(srf.ID))
		}
		out.WindowCount = e.Windows().Len()
		if w := e.CurrentWindow(); w != nil {
			out.ActiveWindow = uint32(w.ID)
		}
		return nil
	})
	return &out, err
}

// Surfaces lists every surface with its active layout.
func (d *Daemon) Surfaces() (*ipc.SurfacesData, error) {
	out := ipc.SurfacesData{Surfaces: []ipc.SurfaceInfo{}}
	err := d.do(func() error {
		e := d.ctl.Engine()
		current, _ := e.CurrentSurface()
		for _, srf := range e.Surfaces() {
			out.Surfaces = append(out.Surfaces, ipc.SurfaceInfo{
				ID:          srf.ID.String(),
				Screen:      srf.ID.Screen,
				Desktop:     srf.ID.Desktop,
				Name:        srf.Name,
				WorkingArea: geometry(srf.WorkingArea),
				Layout:      d.layouts.CurrentLayout(srf.ID).Kind.String(),
				Current:     srf.ID == current.ID,
			})
		}
		return nil
	})
	return &out, err
}

// Windows lists managed windows in tiling order.
func (d *Daemon) Windows() (*ipc.WindowsData, error) {
	out := ipc.WindowsData{Windows: []ipc.WindowInfo{}}
	err := d.do(func() error {
		e := d.ctl.Engine()
		active := e.CurrentWindow()
		for _, w := range e.Windows().All() {
			out.Windows = append(out.Windows, ipc.WindowInfo{
				ID:       uint32(w.ID),
				Class:    w.Class,
				Title:    w.Title,
				State:    w.State().String(),
				Surface:  w.Surface.String(),
				Geometry: geometry(w.ActualGeometry),
				Active:   w == active,
			})
		}
		return nil
	})
	return &out, err
}

// layoutsData must run on the loop.
func (d *Daemon) layoutsData() *ipc.LayoutsData {
	out := &ipc.LayoutsData{
		Layouts:       []ipc.LayoutInfo{},
		DefaultLayout: d.cfg.DefaultLayout,
	}
	for _, kind := range d.layouts.Kinds() {
		out.Layouts = append(out.Layouts, ipc.LayoutInfo{
			Name:        kind.String(),
			Description: tiling.New(kind).Description(),
		})
	}
	if l := d.ctl.Engine().CurrentLayout(); l != nil {
		out.ActiveLayout = l.Kind.String()
	}
	return out
}

// Layouts lists enabled layouts and the current surface's selection.
func (d *Daemon) Layouts() (*ipc.LayoutsData, error) {
	var out *ipc.LayoutsData
	err := d.do(func() error {
		out = d.layoutsData()
		return nil
	})
	return out, err
}

// SetLayout switches the current surface's layout by name.
func (d *Daemon) SetLayout(name string) (*ipc.LayoutsData, error) {
	kind, err := tiling.ParseKind(name)
	if err != nil {
		return nil, err
	}
	var out *ipc.LayoutsData
	err = d.do(func() error {
		if !d.ctl.Engine().SetLayout(kind) {
			return fmt.Errorf("layout %q is not enabled", kind.String())
		}
		d.ctl.Arrange()
		out = d.layoutsData()
		return nil
	})
	return out, err
}

// CycleLayout moves the current surface step layouts onwards.
func (d *Daemon) CycleLayout(step int) (*ipc.LayoutsData, error) {
	var out *ipc.LayoutsData
	err := d.do(func() error {
		d.ctl.Engine().CycleLayout(step)
		d.ctl.Arrange()
		out = d.layoutsData()
		return nil
	})
	return out, err
}

// Actions lists every shortcut action with its bound keys.
func (d *Daemon) Actions() (*ipc.ActionsData, error) {
	out := ipc.ActionsData{Actions: []ipc.ActionInfo{}}
	err := d.do(func() error {
		for _, a := range controller.Actions() {
			out.Actions = append(out.Actions, ipc.ActionInfo{
				Name:        a.Name,
				Description: a.Description,
				Keys:        d.bound[a.Name],
			})
		}
		return nil
	})
	return &out, err
}

// RunAction runs a shortcut action as if its key was pressed.
func (d *Daemon) RunAction(name string) error {
	return d.do(func() error { return d.ctl.RunAction(name) })
}

// Arrange re-reads window-system state and re-lays out every surface.
func (d *Daemon) Arrange() error {
	return d.do(func() error {
		d.sync.Reconcile()
		d.ctl.Arrange()
		return nil
	})
}

// Reload re-reads the config file.
func (d *Daemon) Reload() error {
	return d.do(func() error {
		err := d.reload()
		d.logReload(err)
		return err
	})
}

