package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/TraceTidy/internal/cleanup"
	"github.com/piwi3910/TraceTidy/internal/export"
	traceimporter "github.com/piwi3910/TraceTidy/internal/importer"
	"github.com/piwi3910/TraceTidy/internal/model"
	"github.com/piwi3910/TraceTidy/internal/project"
	"github.com/piwi3910/TraceTidy/internal/scene"
	"github.com/piwi3910/TraceTidy/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	window  fyne.Window
	project model.Project
	tabs    *container.AppTabs
	history *History

	// Cleanup state. The pipeline is created lazily on the first Step or
	// Run, and its output replaces the project traces once it completes.
	pipeline     *cleanup.Pipeline
	pipelineBase []model.Trace
	report       *cleanup.Report

	// UI references for dynamic updates
	devicesContainer *fyne.Container
	tracesContainer  *fyne.Container
	resultContainer  *fyne.Container
	canvas           *widgets.TraceCanvas
	statusLabel      *widget.Label
}

func NewApp(window fyne.Window) *App {
	return &App{
		window:  window,
		project: model.NewProject(),
		history: NewHistory(),
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	// File Menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", func() {
			a.project = model.NewProject()
			a.discardPipeline()
			a.history.Clear()
			a.refreshAll()
		}),
		fyne.NewMenuItem("Open Project...", func() {
			a.loadProject()
		}),
		fyne.NewMenuItem("Save Project...", func() {
			a.saveProject()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Devices from CSV...", func() {
			a.importCSV()
		}),
		fyne.NewMenuItem("Import Devices from Excel...", func() {
			a.importExcel()
		}),
		fyne.NewMenuItem("Import Traces from DXF...", func() {
			a.importDXF()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", func() {
			a.exportPDF()
		}),
		fyne.NewMenuItem("Export Net Labels...", func() {
			a.exportLabels()
		}),
		fyne.NewMenuItem("Export SVG...", func() {
			a.exportSVG()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	// Edit Menu
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() {
			a.undo()
		}),
		fyne.NewMenuItem("Redo", func() {
			a.redo()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear All Devices", func() {
			a.pushHistory("Clear All Devices")
			a.project.Problem.Devices = nil
			a.refreshDevicesList()
		}),
		fyne.NewMenuItem("Clear All Traces", func() {
			a.pushHistory("Clear All Traces")
			a.project.Traces = nil
			a.discardPipeline()
			a.refreshTracesList()
			a.refreshCleanupView()
		}),
	)

	// Tools Menu
	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Run Cleanup", func() {
			a.runCleanup()
			a.tabs.SelectIndex(3) // Switch to Cleanup tab
		}),
		fyne.NewMenuItem("Step Cleanup", func() {
			a.stepCleanup()
			a.tabs.SelectIndex(3)
		}),
		fyne.NewMenuItem("Reset Cleanup", func() {
			a.resetCleanup()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Merge Traces by Net", func() {
			a.mergeByNet()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Manage Presets...", func() {
			a.showPresetManager()
		}),
	)

	// Help Menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	// Set the main menu
	mainMenu := fyne.NewMainMenu(
		fileMenu,
		editMenu,
		toolsMenu,
		helpMenu,
	)
	a.window.SetMainMenu(mainMenu)
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About TraceTidy",
		"TraceTidy — Schematic Trace Cleanup\n\n"+
			"A cross-platform desktop application for untangling,\n"+
			"straightening and balancing routed schematic wire traces.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	// Main tabs
	devicesTab := container.NewTabItem("Devices", a.buildDevicesPanel())
	tracesTab := container.NewTabItem("Traces", a.buildTracesPanel())
	settingsTab := container.NewTabItem("Settings", a.buildSettingsPanel())
	cleanupTab := container.NewTabItem("Cleanup", a.buildCleanupPanel())
	resultsTab := container.NewTabItem("Report", a.buildResultsPanel())

	a.tabs = container.NewAppTabs(devicesTab, tracesTab, settingsTab, cleanupTab, resultsTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	return a.tabs
}

func (a *App) refreshAll() {
	a.refreshDevicesList()
	a.refreshTracesList()
	a.refreshCleanupView()
	a.refreshResults()
}

// ─── Devices Panel ─────────────────────────────────────────

func (a *App) buildDevicesPanel() fyne.CanvasObject {
	a.devicesContainer = container.NewVBox()
	a.refreshDevicesList()

	addBtn := widget.NewButtonWithIcon("Add Device", theme.ContentAddIcon(), func() {
		a.showAddDeviceDialog()
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Placed Devices", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.devicesContainer),
	)
}

func (a *App) refreshDevicesList() {
	a.devicesContainer.RemoveAll()

	if len(a.project.Problem.Devices) == 0 {
		a.devicesContainer.Add(widget.NewLabel("No devices placed yet. Click 'Add Device' or import a placement file."))
		return
	}

	// Header
	header := container.NewGridWithColumns(8,
		widget.NewLabelWithStyle("Label", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("X", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Y", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Width", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Height", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Ports", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.devicesContainer.Add(header)
	a.devicesContainer.Add(widget.NewSeparator())

	for i := range a.project.Problem.Devices {
		idx := i // capture
		d := a.project.Problem.Devices[idx]
		row := container.NewGridWithColumns(8,
			widget.NewLabel(d.Label),
			widget.NewLabel(fmt.Sprintf("%.1f", d.X)),
			widget.NewLabel(fmt.Sprintf("%.1f", d.Y)),
			widget.NewLabel(fmt.Sprintf("%.1f", d.Width)),
			widget.NewLabel(fmt.Sprintf("%.1f", d.Height)),
			widget.NewLabel(fmt.Sprintf("%d", len(d.Ports))),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showEditDeviceDialog(idx)
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.pushHistory("Delete Device")
				a.project.Problem.Devices = append(a.project.Problem.Devices[:idx], a.project.Problem.Devices[idx+1:]...)
				a.refreshDevicesList()
			}),
		)
		a.devicesContainer.Add(row)
	}
}

func (a *App) showAddDeviceDialog() {
	labelEntry := widget.NewEntry()
	labelEntry.SetPlaceHolder("Device designator")
	labelEntry.SetText(fmt.Sprintf("U%d", len(a.project.Problem.Devices)+1))

	xEntry := widget.NewEntry()
	xEntry.SetText("0")

	yEntry := widget.NewEntry()
	yEntry.SetText("0")

	widthEntry := widget.NewEntry()
	widthEntry.SetPlaceHolder("Body width")

	heightEntry := widget.NewEntry()
	heightEntry.SetPlaceHolder("Body height")

	form := dialog.NewForm("Add Device", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem("X", xEntry),
			widget.NewFormItem("Y", yEntry),
			widget.NewFormItem("Width", widthEntry),
			widget.NewFormItem("Height", heightEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			x, _ := strconv.ParseFloat(xEntry.Text, 64)
			y, _ := strconv.ParseFloat(yEntry.Text, 64)
			w, _ := strconv.ParseFloat(widthEntry.Text, 64)
			h, _ := strconv.ParseFloat(heightEntry.Text, 64)
			if w <= 0 || h <= 0 {
				dialog.ShowError(fmt.Errorf("width and height must be > 0"), a.window)
				return
			}

			a.pushHistory("Add Device")
			a.project.Problem.Devices = append(a.project.Problem.Devices, model.NewDevice(labelEntry.Text, x, y, w, h))
			a.refreshDevicesList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 350))
	form.Show()
}

func (a *App) showEditDeviceDialog(idx int) {
	d := a.project.Problem.Devices[idx]

	labelEntry := widget.NewEntry()
	labelEntry.SetText(d.Label)

	xEntry := widget.NewEntry()
	xEntry.SetText(fmt.Sprintf("%.1f", d.X))

	yEntry := widget.NewEntry()
	yEntry.SetText(fmt.Sprintf("%.1f", d.Y))

	widthEntry := widget.NewEntry()
	widthEntry.SetText(fmt.Sprintf("%.1f", d.Width))

	heightEntry := widget.NewEntry()
	heightEntry.SetText(fmt.Sprintf("%.1f", d.Height))

	form := dialog.NewForm("Edit Device", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem("X", xEntry),
			widget.NewFormItem("Y", yEntry),
			widget.NewFormItem("Width", widthEntry),
			widget.NewFormItem("Height", heightEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			x, _ := strconv.ParseFloat(xEntry.Text, 64)
			y, _ := strconv.ParseFloat(yEntry.Text, 64)
			w, _ := strconv.ParseFloat(widthEntry.Text, 64)
			h, _ := strconv.ParseFloat(heightEntry.Text, 64)
			if w <= 0 || h <= 0 {
				dialog.ShowError(fmt.Errorf("width and height must be > 0"), a.window)
				return
			}

			a.pushHistory("Edit Device")
			a.project.Problem.Devices[idx].Label = labelEntry.Text
			a.project.Problem.Devices[idx].X = x
			a.project.Problem.Devices[idx].Y = y
			a.project.Problem.Devices[idx].Width = w
			a.project.Problem.Devices[idx].Height = h
			a.refreshDevicesList()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 350))
	form.Show()
}

// ─── Traces Panel ──────────────────────────────────────────

func (a *App) buildTracesPanel() fyne.CanvasObject {
	a.tracesContainer = container.NewVBox()
	a.refreshTracesList()

	addBtn := widget.NewButtonWithIcon("Add Trace", theme.ContentAddIcon(), func() {
		a.showAddTraceDialog()
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Routed Traces", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.tracesContainer),
	)
}

func (a *App) refreshTracesList() {
	a.tracesContainer.RemoveAll()

	if len(a.project.Traces) == 0 {
		a.tracesContainer.Add(widget.NewLabel("No traces yet. Click 'Add Trace' or import a DXF routing file."))
		return
	}

	header := container.NewGridWithColumns(7,
		widget.NewLabelWithStyle("ID", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Net", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Points", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Bends", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Length", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.tracesContainer.Add(header)
	a.tracesContainer.Add(widget.NewSeparator())

	for i := range a.project.Traces {
		idx := i
		t := a.project.Traces[idx]
		row := container.NewGridWithColumns(7,
			widget.NewLabel(t.ID),
			widget.NewLabel(t.Net),
			widget.NewLabel(fmt.Sprintf("%d", len(t.Points))),
			widget.NewLabel(fmt.Sprintf("%d", model.CountBends(t.Points))),
			widget.NewLabel(fmt.Sprintf("%.1f", model.PolylineLength(t.Points))),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showEditTraceDialog(idx)
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.pushHistory("Delete Trace")
				a.project.Traces = append(a.project.Traces[:idx], a.project.Traces[idx+1:]...)
				a.discardPipeline()
				a.refreshTracesList()
				a.refreshCleanupView()
			}),
		)
		a.tracesContainer.Add(row)
	}
}

// parsePointList parses a polyline entered as "x,y x,y x,y".
func parsePointList(text string) ([]model.Point2D, error) {
	var points []model.Point2D
	for _, pair := range strings.Fields(text) {
		coords := strings.Split(pair, ",")
		if len(coords) != 2 {
			return nil, fmt.Errorf("invalid point %q, expected x,y", pair)
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(coords[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(coords[1]), 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("invalid point %q, expected numeric x,y", pair)
		}
		points = append(points, model.Point2D{X: x, Y: y})
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("a trace needs at least 2 points")
	}
	return points, nil
}

func formatPointList(points []model.Point2D) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%g,%g", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func (a *App) showAddTraceDialog() {
	netEntry := widget.NewEntry()
	netEntry.SetPlaceHolder("Net name (e.g. VCC)")

	pointsEntry := widget.NewEntry()
	pointsEntry.SetPlaceHolder("0,0 10,0 10,5")

	form := dialog.NewForm("Add Trace", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Net", netEntry),
			widget.NewFormItem("Points", pointsEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			points, err := parsePointList(pointsEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			net := strings.TrimSpace(netEntry.Text)
			if net == "" {
				dialog.ShowError(fmt.Errorf("net name must not be empty"), a.window)
				return
			}

			a.pushHistory("Add Trace")
			a.project.Traces = append(a.project.Traces, model.NewTrace(net, points))
			a.discardPipeline()
			a.refreshTracesList()
			a.refreshCleanupView()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(450, 250))
	form.Show()
}

func (a *App) showEditTraceDialog(idx int) {
	t := a.project.Traces[idx]

	netEntry := widget.NewEntry()
	netEntry.SetText(t.Net)

	pointsEntry := widget.NewEntry()
	pointsEntry.SetText(formatPointList(t.Points))

	form := dialog.NewForm("Edit Trace", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Net", netEntry),
			widget.NewFormItem("Points", pointsEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			points, err := parsePointList(pointsEntry.Text)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			net := strings.TrimSpace(netEntry.Text)
			if net == "" {
				dialog.ShowError(fmt.Errorf("net name must not be empty"), a.window)
				return
			}

			a.pushHistory("Edit Trace")
			a.project.Traces[idx].Net = net
			a.project.Traces[idx].Points = points
			a.discardPipeline()
			a.refreshTracesList()
			a.refreshCleanupView()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(450, 250))
	form.Show()
}

// ─── Settings Panel ────────────────────────────────────────

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	s := &a.project.Settings

	// Helper to create a bound float entry
	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%.1f", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	mergeCheck := widget.NewCheck("", func(b bool) { s.MergeOutputByNet = b })
	mergeCheck.Checked = s.MergeOutputByNet

	cleanupSection := widget.NewCard("Cleanup", "", container.NewGridWithColumns(2,
		widget.NewLabel("Preset"), a.buildPresetSelector(),
		widget.NewLabel("Padding Buffer"), floatEntry(&s.PaddingBuffer),
		widget.NewLabel("Max Steps"), intEntry(&s.MaxSteps),
		widget.NewLabel("Merge Output by Net"), mergeCheck,
	))

	untangleSection := widget.NewCard("Untangler", "", container.NewGridWithColumns(2,
		widget.NewLabel("Max Passes"), intEntry(&s.UntangleMaxPasses),
		widget.NewLabel("Nudge Offset"), floatEntry(&s.UntangleNudge),
	))

	return container.NewVScroll(container.NewVBox(
		cleanupSection,
		untangleSection,
	))
}

func (a *App) buildPresetSelector() *widget.Select {
	presets := project.BuiltInPresets()
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}

	selector := widget.NewSelect(names, func(selected string) {
		for _, p := range presets {
			if p.Name == selected {
				themePref := a.project.Settings.Theme
				a.project.Settings = p.Settings
				a.project.Settings.Theme = themePref
				break
			}
		}
	})
	selector.PlaceHolder = "Select a preset..."
	return selector
}

// ─── Cleanup Panel ─────────────────────────────────────────

func (a *App) buildCleanupPanel() fyne.CanvasObject {
	a.statusLabel = widget.NewLabel("Idle. Import or add traces, then step or run the cleanup.")
	a.canvas = widgets.NewTraceCanvas(a.staticScene(), 760, 480)

	stepBtn := newIconButtonWithTooltip(theme.MediaSkipNextIcon(), "Advance the cleanup by one step", func() {
		a.stepCleanup()
	})
	runBtn := newIconButtonWithTooltip(theme.MediaPlayIcon(), "Run the cleanup to completion", func() {
		a.runCleanup()
	})
	resetBtn := newIconButtonWithTooltip(theme.MediaReplayIcon(), "Discard the in-flight cleanup", func() {
		a.resetCleanup()
	})

	toolbar := container.NewHBox(stepBtn, runBtn, resetBtn, layout.NewSpacer(), a.statusLabel)

	return container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewScroll(a.canvas),
	)
}

// staticScene renders the project as-is, used while no pipeline is active.
func (a *App) staticScene() scene.Scene {
	var s scene.Scene
	for _, d := range a.project.Problem.Devices {
		s.Rects = append(s.Rects, scene.RectShape{
			X: d.X, Y: d.Y, W: d.Width, H: d.Height,
			Label:  d.Label,
			Dimmed: true,
		})
		for _, port := range d.Ports {
			s.Circles = append(s.Circles, scene.CircleShape{X: port.X, Y: port.Y, R: 0.1, Dimmed: true})
		}
	}
	for _, l := range a.project.Labels {
		s.Rects = append(s.Rects, scene.RectShape{
			X: l.X, Y: l.Y, W: l.Width, H: l.Height,
			Label:  l.Net,
			Dimmed: true,
		})
	}
	for _, t := range a.project.Traces {
		s.Lines = append(s.Lines, scene.Line{
			Points: t.Points,
			Net:    t.Net,
			Label:  t.ID,
		})
	}
	return s
}

func (a *App) refreshCleanupView() {
	if a.canvas == nil {
		return
	}
	if a.pipeline != nil {
		a.canvas.SetScene(a.pipeline.DebugScene())
	} else {
		a.canvas.SetScene(a.staticScene())
	}
	a.canvas.Refresh()
}

func (a *App) setStatus(text string) {
	if a.statusLabel != nil {
		a.statusLabel.SetText(text)
	}
}

// ─── Report Panel ──────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewStack(
		widget.NewLabel("No report yet. Run the cleanup first."),
	)
	return a.resultContainer
}

func (a *App) refreshResults() {
	a.resultContainer.RemoveAll()
	if a.report == nil {
		a.resultContainer.Add(widget.NewLabel("No report yet. Run the cleanup first."))
		a.resultContainer.Refresh()
		return
	}

	var items []fyne.CanvasObject
	header := widget.NewLabelWithStyle("Cleanup Report", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	items = append(items, header)
	for _, line := range a.report.Summary() {
		items = append(items, widget.NewLabel(line))
	}
	if !a.report.Untangled {
		warning := widget.NewLabel("WARNING: untangling did not converge; crossings may remain.")
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
	}
	a.resultContainer.Add(container.NewVScroll(container.NewVBox(items...)))
	a.resultContainer.Refresh()
}

// ─── Cleanup Actions ───────────────────────────────────────

// ensurePipeline creates the pipeline on first use. Returns false when there
// is nothing to clean or the trace set is invalid.
func (a *App) ensurePipeline() bool {
	if a.pipeline != nil {
		return true
	}
	if len(a.project.Traces) == 0 {
		dialog.ShowInformation("Nothing to clean", "Add at least one trace first.", a.window)
		return false
	}

	p, err := cleanup.NewPipeline(a.project.Problem, a.project.Traces, a.project.Labels, a.project.MergedNets, a.project.Settings)
	if err != nil {
		dialog.ShowError(err, a.window)
		return false
	}
	a.pipeline = p
	a.pipelineBase = copyTraces(a.project.Traces)
	a.report = nil
	return true
}

func (a *App) stepCleanup() {
	if !a.ensurePipeline() {
		return
	}
	a.pipeline.Step()
	if a.pipeline.Failed() {
		dialog.ShowError(a.pipeline.Err(), a.window)
		a.discardPipeline()
		a.refreshCleanupView()
		a.setStatus("Cleanup failed.")
		return
	}
	if a.pipeline.Solved() {
		a.finishCleanup()
		return
	}
	a.refreshCleanupView()
	a.setStatus(fmt.Sprintf("Phase: %s | step %d", a.pipeline.Phase(), a.pipeline.Steps()))
}

func (a *App) runCleanup() {
	if !a.ensurePipeline() {
		return
	}
	solved := cleanup.Run(a.pipeline, a.project.Settings.MaxSteps)
	if a.pipeline.Failed() {
		dialog.ShowError(a.pipeline.Err(), a.window)
		a.discardPipeline()
		a.refreshCleanupView()
		a.setStatus("Cleanup failed.")
		return
	}
	if !solved {
		a.refreshCleanupView()
		a.setStatus(fmt.Sprintf("Step limit reached after %d steps. Step or run again to continue.", a.pipeline.Steps()))
		return
	}
	a.finishCleanup()
}

// finishCleanup applies the pipeline output to the project and builds the
// report. The optional net merge runs on the finished output only.
func (a *App) finishCleanup() {
	out := a.pipeline.Output()
	if a.project.Settings.MergeOutputByNet {
		out = cleanup.MergeByNet(out)
	}

	report := cleanup.BuildReport(a.pipelineBase, out, a.pipeline.Steps(), !a.pipeline.UntangleFailed())
	a.report = &report

	a.pushHistory("Run Cleanup")
	a.project.Traces = out
	untangleFailed := a.pipeline.UntangleFailed()
	a.pipeline = nil
	a.pipelineBase = nil

	a.refreshTracesList()
	a.refreshCleanupView()
	a.refreshResults()
	if untangleFailed {
		a.setStatus(fmt.Sprintf("Done in %d steps; untangling did not converge.", report.Steps))
	} else {
		a.setStatus(fmt.Sprintf("Done in %d steps. Removed %d bends.", report.Steps, report.BendsRemoved))
	}
}

func (a *App) resetCleanup() {
	a.discardPipeline()
	a.refreshCleanupView()
	a.setStatus("Cleanup reset.")
}

func (a *App) discardPipeline() {
	a.pipeline = nil
	a.pipelineBase = nil
}

func (a *App) mergeByNet() {
	if len(a.project.Traces) == 0 {
		dialog.ShowInformation("Nothing to merge", "Add at least one trace first.", a.window)
		return
	}
	a.pushHistory("Merge Traces by Net")
	before := len(a.project.Traces)
	a.project.Traces = cleanup.MergeByNet(a.project.Traces)
	a.discardPipeline()
	a.refreshTracesList()
	a.refreshCleanupView()
	dialog.ShowInformation("Merge Complete",
		fmt.Sprintf("Merged %d traces into %d.", before, len(a.project.Traces)), a.window)
}

// ─── Undo / Redo ───────────────────────────────────────────

func (a *App) pushHistory(label string) {
	a.history.Push(MakeSnapshot(a.project.Problem.Devices, a.project.Traces, label))
}

func (a *App) currentSnapshot() Snapshot {
	return MakeSnapshot(a.project.Problem.Devices, a.project.Traces, "current")
}

func (a *App) undo() {
	snap, ok := a.history.Undo(a.currentSnapshot())
	if !ok {
		return
	}
	a.applySnapshot(snap)
}

func (a *App) redo() {
	snap, ok := a.history.Redo(a.currentSnapshot())
	if !ok {
		return
	}
	a.applySnapshot(snap)
}

func (a *App) applySnapshot(s Snapshot) {
	a.project.Problem.Devices = s.Devices
	a.project.Traces = s.Traces
	a.discardPipeline()
	a.refreshDevicesList()
	a.refreshTracesList()
	a.refreshCleanupView()
}

// ─── Project Persistence ───────────────────────────────────

func (a *App) saveProject() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := project.Save(path, a.project); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
	d.SetFileName(a.project.Name + ".ttidy")
	d.Show()
}

func (a *App) loadProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		proj, err := project.Load(reader.URI().Path())
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.project = proj
		a.discardPipeline()
		a.report = nil
		a.history.Clear()
		a.refreshAll()
	}, a.window)
	d.Show()
}

// ─── Export Functions ──────────────────────────────────────

func (a *App) exportPDF() {
	if len(a.project.Traces) == 0 {
		dialog.ShowInformation("Nothing to export", "Add or import traces first.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportPDF(path, a.project, a.report); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("PDF saved to %s", path), a.window)
		}
	}, a.window)
	d.SetFileName(a.project.Name + ".pdf")
	d.Show()
}

func (a *App) exportLabels() {
	if len(a.project.Traces) == 0 {
		dialog.ShowInformation("Nothing to export", "Add or import traces first.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportNetLabels(path, a.project); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Net labels saved to %s", path), a.window)
		}
	}, a.window)
	d.SetFileName(a.project.Name + "-labels.pdf")
	d.Show()
}

func (a *App) exportSVG() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		var sc scene.Scene
		if a.pipeline != nil {
			sc = a.pipeline.DebugScene()
		} else {
			sc = a.staticScene()
		}
		if err := export.ExportSVG(path, sc); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("SVG saved to %s", path), a.window)
		}
	}, a.window)
	d.SetFileName(a.project.Name + ".svg")
	d.Show()
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importCSV() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := traceimporter.ImportCSV(reader.URI().Path())
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) importExcel() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := traceimporter.ImportExcel(reader.URI().Path())
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) importDXF() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := traceimporter.ImportDXF(reader.URI().Path())
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) handleImportResult(result traceimporter.ImportResult) {
	// Show errors if any
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}

	// Show warnings if any
	if len(result.Warnings) > 0 {
		// Just log warnings, don't block
		fmt.Printf("Import warnings: %v\n", result.Warnings)
	}

	if len(result.Devices) == 0 && len(result.Traces) == 0 {
		return
	}

	a.pushHistory("Import")
	if len(result.Devices) > 0 {
		a.project.Problem.Devices = append(a.project.Problem.Devices, result.Devices...)
		a.refreshDevicesList()
	}
	if len(result.Traces) > 0 {
		a.project.Traces = append(a.project.Traces, result.Traces...)
		a.discardPipeline()
		a.refreshTracesList()
		a.refreshCleanupView()
	}

	msg := fmt.Sprintf("Successfully imported %d devices and %d traces.", len(result.Devices), len(result.Traces))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}
