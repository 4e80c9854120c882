// Package platform executes the external-navigation actions skills ask
// for: opening URLs in the default browser and launching local
// applications.
package platform

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/Mas562/voiceai-assistant/internal/skills"
)

// Actions launches browsers and applications with the commands native
// to the current OS.
type Actions struct{}

func New() *Actions { return &Actions{} }

func (a *Actions) OpenURL(url string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

func (a *Actions) OpenApp(app skills.App) error {
	switch app {
	case skills.AppCalculator:
		return a.launch("calc", "Calculator", "gnome-calculator")
	case skills.AppNotepad:
		return a.launch("notepad", "TextEdit", "gedit")
	case skills.AppProjectFolder:
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve project folder: %w", err)
		}
		switch runtime.GOOS {
		case "windows":
			return exec.Command("explorer", wd).Start()
		case "darwin":
			return exec.Command("open", wd).Start()
		default:
			return exec.Command("xdg-open", wd).Start()
		}
	default:
		return fmt.Errorf("unknown application: %s", app)
	}
}

func (a *Actions) launch(windows, darwin, linux string) error {
	switch runtime.GOOS {
	case "windows":
		return exec.Command(windows).Start()
	case "darwin":
		return exec.Command("open", "-a", darwin).Start()
	default:
		return exec.Command(linux).Start()
	}
}
