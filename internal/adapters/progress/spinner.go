package progress

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/chainseed-org/chainseed/internal/usecase"
)

// SpinnerSink reports run progress on the terminal with a spinner while a
// step is in flight.
type SpinnerSink struct {
	spinner *spinner.Spinner
}

// NewSpinnerSink creates a spinner-based progress sink.
func NewSpinnerSink() *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.HideCursor = false
	return &SpinnerSink{spinner: s}
}

// StepStart begins a step: the spinner runs until StepDone or Error.
func (p *SpinnerSink) StepStart(message string) {
	p.spinner.Suffix = " " + message
	if !p.spinner.Active() {
		p.spinner.Start()
	}
}

// StepDone completes the current step.
func (p *SpinnerSink) StepDone(message string) {
	p.stop()
	fmt.Printf("%s %s\n", color.GreenString("✓"), message)
}

// Info prints a neutral progress message.
func (p *SpinnerSink) Info(message string) {
	p.stop()
	fmt.Println(message)
}

// Warn prints a non-fatal warning.
func (p *SpinnerSink) Warn(message string) {
	p.stop()
	fmt.Printf("%s %s\n", color.YellowString("!"), message)
}

// Error prints a failure message.
func (p *SpinnerSink) Error(message string) {
	p.stop()
	fmt.Printf("%s %s\n", color.RedString("✗"), message)
}

func (p *SpinnerSink) stop() {
	if p.spinner.Active() {
		p.spinner.Stop()
	}
}

// Ensure the adapter implements the interface
var _ usecase.ProgressSink = (*SpinnerSink)(nil)
