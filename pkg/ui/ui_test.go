package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	out := FormatError("Unknown topology", `"nope"`, "run 'topolab list'")
	assert.Contains(t, out, "Error: Unknown topology")
	assert.Contains(t, out, `"nope"`)
	assert.Contains(t, out, "Hint: run 'topolab list'")

	assert.NotContains(t, FormatError("x", "", ""), "Hint")
}

func TestValidationLines(t *testing.T) {
	var buf bytes.Buffer
	ValidationOK(&buf, "topo", "3 switches, 2 hosts")
	ValidationErr(&buf, "broken", "dangling link")
	assert.Contains(t, buf.String(), "OK")
	assert.Contains(t, buf.String(), "topo: 3 switches, 2 hosts")
	assert.Contains(t, buf.String(), "ERR")
	assert.Contains(t, buf.String(), "broken: dangling link")
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	Warn(&buf, "not running as root")
	assert.Contains(t, buf.String(), "Warning: not running as root")
}
