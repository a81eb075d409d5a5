package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/TraceTidy/internal/project"
)

// showPresetManager opens the preset management dialog where users can
// view, create, apply, delete, import, and export cleanup presets.
func (a *App) showPresetManager() {
	w := fyne.CurrentApp().NewWindow("Cleanup Preset Manager")
	w.Resize(fyne.NewSize(700, 500))

	var listWidget *widget.List
	var selectedIdx int = -1
	var detailContainer *fyne.Container

	custom, err := project.LoadCustomPresetsFromDefault()
	if err != nil {
		dialog.ShowError(err, a.window)
	}
	presets := append(project.BuiltInPresets(), custom...)

	reload := func() {
		custom, _ = project.LoadCustomPresetsFromDefault()
		presets = append(project.BuiltInPresets(), custom...)
		selectedIdx = -1
		listWidget.Refresh()
		listWidget.UnselectAll()
		detailContainer.RemoveAll()
		detailContainer.Add(widget.NewLabel("Select a preset to view details."))
		detailContainer.Refresh()
	}

	detailContainer = container.NewVBox(
		widget.NewLabel("Select a preset to view details."),
	)

	listWidget = widget.NewList(
		func() int {
			return len(presets)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Preset Name"),
				layout.NewSpacer(),
				widget.NewLabel("(built-in)"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			nameLabel := box.Objects[1].(*widget.Label)
			tagLabel := box.Objects[3].(*widget.Label)
			p := presets[id]
			nameLabel.SetText(p.Name)
			if p.IsBuiltIn {
				tagLabel.SetText("(built-in)")
			} else {
				tagLabel.SetText("(custom)")
			}
		},
	)

	listWidget.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		p := presets[id]
		detailContainer.RemoveAll()
		detailContainer.Add(widget.NewLabelWithStyle(p.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		if p.Description != "" {
			detailContainer.Add(widget.NewLabel(p.Description))
		}
		detailContainer.Add(widget.NewSeparator())
		detailContainer.Add(widget.NewLabel(fmt.Sprintf("Padding buffer: %.2f", p.Settings.PaddingBuffer)))
		detailContainer.Add(widget.NewLabel(fmt.Sprintf("Untangle passes: %d", p.Settings.UntangleMaxPasses)))
		detailContainer.Add(widget.NewLabel(fmt.Sprintf("Untangle nudge: %.2f", p.Settings.UntangleNudge)))
		detailContainer.Add(widget.NewLabel(fmt.Sprintf("Max steps: %d", p.Settings.MaxSteps)))
		detailContainer.Add(widget.NewLabel(fmt.Sprintf("Merge output by net: %t", p.Settings.MergeOutputByNet)))
		detailContainer.Refresh()
	}

	// Action buttons
	newBtn := widget.NewButtonWithIcon("New", theme.ContentAddIcon(), func() {
		a.showNewPresetDialog(w, custom, reload)
	})

	applyBtn := widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(presets) {
			dialog.ShowInformation("No Selection", "Select a preset to apply.", w)
			return
		}
		p := presets[selectedIdx]
		themePref := a.project.Settings.Theme
		a.project.Settings = p.Settings
		a.project.Settings.Theme = themePref
		dialog.ShowInformation("Preset Applied",
			fmt.Sprintf("Project settings now follow %q.", p.Name), w)
	})

	importBtn := widget.NewButtonWithIcon("Import", theme.FolderOpenIcon(), func() {
		a.importPresetDialog(w, func(p project.Preset) {
			updated := append(custom, p)
			if err := project.SaveCustomPresetsToDefault(updated); err != nil {
				dialog.ShowError(err, w)
				return
			}
			reload()
		})
	})

	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(presets) {
			dialog.ShowInformation("No Selection", "Select a preset to export.", w)
			return
		}
		a.exportPresetDialog(presets[selectedIdx], w)
	})

	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(presets) {
			dialog.ShowInformation("No Selection", "Select a preset to delete.", w)
			return
		}
		p := presets[selectedIdx]
		if p.IsBuiltIn {
			dialog.ShowInformation("Cannot Delete", "Built-in presets cannot be deleted.", w)
			return
		}
		dialog.ShowConfirm("Delete Preset",
			fmt.Sprintf("Delete preset %q?", p.Name),
			func(ok bool) {
				if !ok {
					return
				}
				remaining := make([]project.Preset, 0, len(custom))
				for _, c := range custom {
					if c.Name != p.Name {
						remaining = append(remaining, c)
					}
				}
				if err := project.SaveCustomPresetsToDefault(remaining); err != nil {
					dialog.ShowError(err, w)
					return
				}
				reload()
			}, w)
	})

	buttons := container.NewHBox(newBtn, applyBtn, importBtn, exportBtn, deleteBtn)

	split := container.NewHSplit(
		listWidget,
		container.NewVScroll(detailContainer),
	)
	split.SetOffset(0.4)

	w.SetContent(container.NewBorder(buttons, nil, nil, nil, split))
	w.Show()
}

// showNewPresetDialog saves the current project settings as a named preset.
func (a *App) showNewPresetDialog(w fyne.Window, custom []project.Preset, onSaved func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Preset name")

	descEntry := widget.NewEntry()
	descEntry.SetPlaceHolder("Optional description")

	form := dialog.NewForm("New Preset", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			if nameEntry.Text == "" {
				dialog.ShowError(fmt.Errorf("preset name must not be empty"), w)
				return
			}
			for _, p := range append(project.BuiltInPresets(), custom...) {
				if p.Name == nameEntry.Text {
					dialog.ShowError(fmt.Errorf("a preset named %q already exists", nameEntry.Text), w)
					return
				}
			}

			preset := project.Preset{
				Name:        nameEntry.Text,
				Description: descEntry.Text,
				Settings:    a.project.Settings,
			}
			if err := project.SaveCustomPresetsToDefault(append(custom, preset)); err != nil {
				dialog.ShowError(err, w)
				return
			}
			onSaved()
		},
		w,
	)
	form.Resize(fyne.NewSize(400, 250))
	form.Show()
}

func (a *App) importPresetDialog(w fyne.Window, onImported func(project.Preset)) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		preset, err := project.ImportPreset(reader.URI().Path())
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		onImported(preset)
	}, w)
}

func (a *App) exportPresetDialog(p project.Preset, w fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := project.ExportPreset(path, p); err != nil {
			dialog.ShowError(err, w)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Preset saved to %s", path), w)
		}
	}, w)
	d.SetFileName(p.Name + ".json")
	d.Show()
}
