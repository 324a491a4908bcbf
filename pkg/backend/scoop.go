package backend

// Scoop drives the Scoop installer.
type Scoop struct {
	*BaseBackend
}

// NewScoop creates a new Scoop backend.
func NewScoop() *Scoop {
	return &Scoop{
		BaseBackend: NewBaseBackend(Tertiary, "Scoop", "scoop"),
	}
}

// InstallArgs builds a scoop install. Scoop never prompts and has neither a
// log file option nor a forced install, so both are ignored.
func (s *Scoop) InstallArgs(packageID string, force bool, logFile string) []string {
	return []string{"install", packageID}
}

// SearchHint returns the scoop search command for a query.
func (s *Scoop) SearchHint(query string) string {
	return "scoop search " + query
}
