package models

const (
	DefaultMaxBackups = 10
	DefaultTheme      = "industrial-dark"
)

type Settings struct {
	CurrentFolder string   `json:"currentFolder"`
	ActiveTags    []string `json:"activeTags"`
	CurrentView   string   `json:"currentView"`
	CurrentFilter string   `json:"currentFilter"`
	Theme         string   `json:"theme"`
	AutoSave      bool     `json:"autoSave"`
	AutoBackup    bool     `json:"autoBackup"`
	MaxBackups    int      `json:"maxBackups"`
}

func DefaultSettings(maxBackups int) Settings {
	if maxBackups <= 0 {
		maxBackups = DefaultMaxBackups
	}
	return Settings{
		CurrentFolder: "all",
		ActiveTags:    []string{},
		CurrentView:   "list",
		CurrentFilter: "all",
		Theme:         DefaultTheme,
		AutoSave:      true,
		AutoBackup:    true,
		MaxBackups:    maxBackups,
	}
}

// WindowState is the last known geometry of the main window. X and Y are
// nil until the window has been placed once.
type WindowState struct {
	X         *int `json:"x"`
	Y         *int `json:"y"`
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	Maximized bool `json:"maximized"`
}

func DefaultWindowState() WindowState {
	return WindowState{Width: 1400, Height: 900}
}

type AppFlags struct {
	StartMinimized bool `json:"startMinimized"`
	MinimizeToTray bool `json:"minimizeToTray"`
	AutoLaunch     bool `json:"autoLaunch"`
	CheckUpdates   bool `json:"checkUpdates"`
	DebugMode      bool `json:"debugMode"`
}

func DefaultAppFlags() AppFlags {
	return AppFlags{CheckUpdates: true}
}
