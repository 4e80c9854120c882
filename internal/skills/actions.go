package skills

// App identifies a local application a skill may ask the platform to
// launch.
type App string

const (
	AppCalculator    App = "calculator"
	AppNotepad       App = "notepad"
	AppProjectFolder App = "project_folder"
)

// Actions is the external-navigation collaborator: opening URLs in the
// default browser and launching local applications. Skills never invoke
// OS commands themselves.
type Actions interface {
	OpenURL(url string) error
	OpenApp(app App) error
}
