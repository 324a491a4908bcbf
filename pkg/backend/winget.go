package backend

// Winget drives the Windows Package Manager.
type Winget struct {
	*BaseBackend
}

// NewWinget creates a new Winget backend.
func NewWinget() *Winget {
	return &Winget{
		BaseBackend: NewBaseBackend(Primary, "Windows Package Manager", "winget"),
	}
}

// InstallArgs builds a silent, exact-id winget install.
func (w *Winget) InstallArgs(packageID string, force bool, logFile string) []string {
	args := []string{
		"install", "--id", packageID, "--exact", "--silent",
		"--accept-package-agreements", "--accept-source-agreements",
		"--disable-interactivity",
	}
	if logFile != "" {
		args = append(args, "--log", logFile)
	}
	if force {
		args = append(args, "--force")
	}
	return args
}

// SearchHint returns the winget search command for a query.
func (w *Winget) SearchHint(query string) string {
	return "winget search " + query
}
