package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), SuccessIcon+" saved")
	assert.Contains(t, FormatError("failed"), ErrorIcon+" failed")
	assert.Contains(t, FormatTitle("Summary"), SproutIcon+" Summary")
	assert.Contains(t, FormatFlow(true, "$5.00"), "+$5.00")
	assert.Contains(t, FormatFlow(false, "$5.00"), "-$5.00")
	assert.Contains(t, FormatWarning("careful"), WarningIcon+" careful")
	assert.Contains(t, FormatInfo("note"), InfoIcon+" note")
	assert.Contains(t, FormatPrompt("Continue?"), "Continue? → ")
	assert.Contains(t, RenderBox("Profile", "Name: Sam"), "Name: Sam")
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"Name", "Amount"},
		[][]string{
			{"Food & Dining", "$42.50"},
			{"Rent"},
		},
	)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[1], "Food & Dining")
	assert.Contains(t, lines[1], "$42.50")
	assert.Contains(t, lines[2], "Rent")

	// The amount column starts at the same offset on every row
	assert.Equal(t, strings.Index(lines[0], "Amount"), strings.Index(lines[1], "$42.50"))
}

func TestRenderMeter(t *testing.T) {
	assert.Empty(t, RenderMeter(50, 0))
	assert.Contains(t, RenderMeter(50, 10), "█████░░░░░")
	assert.Contains(t, RenderMeter(50, 10), "50.0%")
	assert.Contains(t, RenderMeter(150, 4), "████")
	assert.Contains(t, RenderMeter(-5, 4), "░░░░")
}

func TestNewProgressBar(t *testing.T) {
	var out bytes.Buffer
	bar := NewProgressBar(&out, 3, "Restoring")
	tick := Ticker(bar)

	tick()
	tick()
	tick()

	assert.True(t, bar.IsFinished())
	assert.Contains(t, out.String(), "Restoring")
}
