package backend

// Chocolatey drives the Chocolatey package manager.
type Chocolatey struct {
	*BaseBackend
}

// NewChocolatey creates a new Chocolatey backend.
func NewChocolatey() *Chocolatey {
	return &Chocolatey{
		BaseBackend: NewBaseBackend(Secondary, "Chocolatey", "choco"),
	}
}

// InstallArgs builds a confirmed, progress-free choco install.
func (c *Chocolatey) InstallArgs(packageID string, force bool, logFile string) []string {
	args := []string{"install", packageID, "-y", "--no-progress"}
	if logFile != "" {
		args = append(args, "--log-file", logFile)
	}
	if force {
		args = append(args, "--force")
	}
	return args
}

// SearchHint returns the choco search command for a query.
func (c *Chocolatey) SearchHint(query string) string {
	return "choco search " + query
}
