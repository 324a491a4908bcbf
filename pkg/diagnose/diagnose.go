// Package diagnose classifies installation failures and suggests recovery steps.
package diagnose

import (
	"fmt"
	"regexp"
	"strings"
)

// Severity rates how serious a failure is. It is used for reporting only.
type Severity int

const (
	Low Severity = iota
	Medium
	High
	Critical
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Category is the kind of failure a message was recognized as.
type Category int

const (
	CategoryGeneric Category = iota
	CategoryEnvironment
	CategoryNetwork
	CategoryPermission
	CategoryNotFound
	CategoryExecutionPolicy
	CategoryDependency
	CategoryVerification
)

var categoryNames = map[Category]string{
	CategoryGeneric:         "generic",
	CategoryEnvironment:     "environment",
	CategoryNetwork:         "network",
	CategoryPermission:      "permission",
	CategoryNotFound:        "not-found",
	CategoryExecutionPolicy: "execution-policy",
	CategoryDependency:      "dependency",
	CategoryVerification:    "verification",
}

// String returns the category name.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ToolContext carries what is known about the tool that failed.
type ToolContext struct {
	Tool      string
	ManualURL string
	// Backends lists the backends that were tried, in order.
	Backends []string
	// SearchHints are backend search commands for the tool's name.
	SearchHints []string
}

// Diagnosis is the classifier's output.
type Diagnosis struct {
	Category    Category
	Severity    Severity
	Suggestions []string
}

type rule struct {
	category    Category
	severity    Severity
	pattern     *regexp.Regexp
	suggestions []string
}

// Rules are tried in order; the first match wins.
var rules = []rule{
	{
		category: CategoryEnvironment,
		severity: Critical,
		pattern:  regexp.MustCompile(`(?i)no (package manager|backend)s? (is )?available`),
		suggestions: []string{
			"Install winget (App Installer) from the Microsoft Store",
			"Or install Chocolatey: https://chocolatey.org/install",
			"Or install Scoop: https://scoop.sh",
			"Run 'toolup doctor' to see which backends were detected",
		},
	},
	{
		category: CategoryNetwork,
		severity: Medium,
		pattern:  regexp.MustCompile(`(?i)timed? ?out|timeout|network|connection|unable to connect|could not resolve|name resolution|proxy|ssl|tls|certificate|0x80072ee[27]|download failed`),
		suggestions: []string{
			"Check your internet connection",
			"Retry with a longer timeout (--timeout)",
			"If you are behind a proxy, configure it for the package manager",
		},
	},
	{
		category: CategoryPermission,
		severity: High,
		pattern:  regexp.MustCompile(`(?i)access (is )?denied|permission denied|unauthorized|administrator|elevat|privilege|0x80070005`),
		suggestions: []string{
			"Run the terminal as Administrator",
			"Or use Scoop, which installs per user without elevation",
		},
	},
	{
		category: CategoryNotFound,
		severity: Medium,
		pattern:  regexp.MustCompile(`(?i)no package found|no packages? (was )?found|not found|couldn't find|could not find|unknown package|no (app|manifest) (was )?found|0x8a150014`),
		suggestions: []string{
			"Check the package identifier in the catalog",
			"Update the package manager's sources",
		},
	},
	{
		category: CategoryExecutionPolicy,
		severity: High,
		pattern:  regexp.MustCompile(`(?i)execution ?policy|running scripts is disabled|cannot be loaded because|not digitally signed`),
		suggestions: []string{
			"Allow local scripts: Set-ExecutionPolicy RemoteSigned -Scope CurrentUser",
		},
	},
	{
		category: CategoryDependency,
		severity: Medium,
		pattern:  regexp.MustCompile(`(?i)dependenc|module .*not (found|loaded)|missing (module|requirement)|requires .* to be installed|conflict`),
		suggestions: []string{
			"Install the missing dependency first",
			"Update the package manager and retry",
		},
	},
	{
		category: CategoryVerification,
		severity: Medium,
		pattern:  regexp.MustCompile(`(?i)verification failed|not (found )?on path|not functional|not recognized as`),
		suggestions: []string{
			"Open a new terminal so PATH changes take effect",
			"Check that the install directory is on PATH",
		},
	},
}

var generic = rule{
	category: CategoryGeneric,
	severity: Low,
	suggestions: []string{
		"Retry the installation",
		"Re-run with --verbose for details",
	},
}

// Classify matches a failure message against the known rules.
func Classify(message string, ctx ToolContext) Diagnosis {
	matched := generic
	for _, r := range rules {
		if r.pattern.MatchString(message) {
			matched = r
			break
		}
	}

	d := Diagnosis{
		Category:    matched.category,
		Severity:    matched.severity,
		Suggestions: append([]string(nil), matched.suggestions...),
	}

	if matched.category == CategoryNotFound || matched.category == CategoryGeneric {
		d.Suggestions = append(d.Suggestions, ctx.SearchHints...)
	}
	if ctx.ManualURL != "" && matched.category != CategoryEnvironment {
		d.Suggestions = append(d.Suggestions, fmt.Sprintf("Download %s manually: %s", ctx.Tool, ctx.ManualURL))
	}

	return d
}

// Summary formats a diagnosis on one line for logs.
func (d Diagnosis) Summary() string {
	return fmt.Sprintf("%s (%s): %s", d.Category, d.Severity, strings.Join(d.Suggestions, "; "))
}
