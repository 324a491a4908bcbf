package diagnose

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		message      string
		wantCategory Category
		wantSeverity Severity
	}{
		{"no backend", "no backend available on this host", CategoryEnvironment, Critical},
		{"timeout", "winget install timed out after 5m0s", CategoryNetwork, Medium},
		{"network", "InternetOpenUrl failed: 0x80072ee7", CategoryNetwork, Medium},
		{"access denied", "Access is denied.", CategoryPermission, High},
		{"admin", "This package requires administrator rights", CategoryPermission, High},
		{"winget not found", "No package found matching input criteria.", CategoryNotFound, Medium},
		{"choco not found", "The package was not found with the source(s) listed.", CategoryNotFound, Medium},
		{"execution policy", "scoop.ps1 cannot be loaded because running scripts is disabled on this system", CategoryExecutionPolicy, High},
		{"dependency", "Missing dependency: vcredist140", CategoryDependency, Medium},
		{"verification", "verification failed: fzf not on PATH", CategoryVerification, Medium},
		{"generic", "exit status 1603", CategoryGeneric, Low},
		{"empty", "", CategoryGeneric, Low},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.message, ToolContext{Tool: "fzf"})
			if d.Category != tt.wantCategory {
				t.Errorf("Category = %s, want %s", d.Category, tt.wantCategory)
			}
			if d.Severity != tt.wantSeverity {
				t.Errorf("Severity = %s, want %s", d.Severity, tt.wantSeverity)
			}
			if len(d.Suggestions) == 0 {
				t.Error("Suggestions empty")
			}
		})
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	// Matches both the network and not-found rules; network comes first.
	d := Classify("connection reset, package not found in cache", ToolContext{})
	if d.Category != CategoryNetwork {
		t.Errorf("Category = %s, want network", d.Category)
	}
}

func TestClassifyToolContext(t *testing.T) {
	ctx := ToolContext{
		Tool:        "fzf",
		ManualURL:   "https://github.com/junegunn/fzf/releases",
		SearchHints: []string{"winget search fzf"},
	}

	d := Classify("No package found matching input criteria.", ctx)

	joined := strings.Join(d.Suggestions, "\n")
	if !strings.Contains(joined, "winget search fzf") {
		t.Error("missing search hint")
	}
	last := d.Suggestions[len(d.Suggestions)-1]
	if !strings.Contains(last, ctx.ManualURL) {
		t.Errorf("manual URL should be the last suggestion, got %q", last)
	}

	env := Classify("no backend available", ctx)
	for _, s := range env.Suggestions {
		if strings.Contains(s, ctx.ManualURL) || strings.Contains(s, "winget search") {
			t.Errorf("environment diagnosis carries tool hint %q", s)
		}
	}
}

func TestClassifyDoesNotShareSuggestions(t *testing.T) {
	a := Classify("Access is denied.", ToolContext{ManualURL: "https://a"})
	b := Classify("Access is denied.", ToolContext{})

	if len(a.Suggestions) == len(b.Suggestions) {
		t.Fatal("expected manual URL suggestion only in the first diagnosis")
	}
	a.Suggestions[0] = "mutated"
	if c := Classify("Access is denied.", ToolContext{}); c.Suggestions[0] == "mutated" {
		t.Error("rule suggestions were mutated through a diagnosis")
	}
}

func TestStrings(t *testing.T) {
	if Critical.String() != "critical" || Severity(99).String() != "unknown" {
		t.Error("Severity.String")
	}
	if CategoryExecutionPolicy.String() != "execution-policy" || Category(99).String() != "unknown" {
		t.Error("Category.String")
	}
}
