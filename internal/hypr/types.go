package hypr

// Workspace identifies a Hyprland workspace. Special (hidden) workspaces
// carry negative IDs and a "special:" name prefix.
type Workspace struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// IsSpecial reports whether the workspace is a hidden special workspace.
func (w Workspace) IsSpecial() bool {
	return w.ID < 0
}

// Window describes a Hyprland client window.
type Window struct {
	Address   string    `json:"address"`
	Workspace Workspace `json:"workspace"`
	Title     string    `json:"title"`
	Class     string    `json:"class"`
}
