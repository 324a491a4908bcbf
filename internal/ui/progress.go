package ui

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"toolup/pkg/install"
)

// Progress tracks a batch of installs. On a non-terminal it does nothing.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a progress bar for total tools.
func NewProgress(total int) *Progress {
	if total < 2 || !IsTerminal() {
		return &Progress{}
	}

	saucer := "█"
	if !UseUnicode {
		saucer = "="
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("installing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionEnableColorCodes(UseColors),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        saucer,
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Progress{bar: bar}
}

// Active reports whether a bar is being drawn.
func (p *Progress) Active() bool {
	return p.bar != nil
}

// Done advances the bar for a finished tool.
func (p *Progress) Done(res install.Result) {
	if p.bar == nil {
		return
	}
	mark := SymbolSuccess
	if !res.Success {
		mark = SymbolError
	}
	p.bar.Describe(fmt.Sprintf("%s %s", mark, res.Tool))
	_ = p.bar.Add(1)
}

// Finish clears the bar.
func (p *Progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
