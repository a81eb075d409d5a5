// TraceTidy — Schematic Trace Cleanup
//
// A cross-platform desktop application for untangling, straightening and
// balancing routed schematic wire traces.
//
// Build:
//   go build -o tracetidy ./cmd/tracetidy
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o tracetidy.exe ./cmd/tracetidy
//   GOOS=darwin  GOARCH=amd64 go build -o tracetidy-darwin ./cmd/tracetidy
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"

	"github.com/piwi3910/TraceTidy/internal/project"
	"github.com/piwi3910/TraceTidy/internal/ui"
)

func main() {
	application := app.NewWithID("com.piwi3910.tracetidy")

	// Apply the saved theme preference; a missing or unreadable config
	// falls back to defaults.
	config, _ := project.LoadAppConfig(project.DefaultConfigPath())
	switch config.Theme {
	case "dark":
		application.Settings().SetTheme(ui.NewTraceTidyThemeWithVariant(theme.VariantDark))
	case "light":
		application.Settings().SetTheme(ui.NewTraceTidyThemeWithVariant(theme.VariantLight))
	default:
		application.Settings().SetTheme(ui.NewTraceTidyTheme())
	}

	window := application.NewWindow("TraceTidy — Schematic Trace Cleanup")

	appUI := ui.NewApp(window)
	appUI.SetupMenus() // Setup the native menu bar
	window.SetContent(appUI.Build())
	window.Resize(fyne.NewSize(1000, 700))
	window.CenterOnScreen()
	window.ShowAndRun()
}
