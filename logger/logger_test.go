package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixesEveryLine(t *testing.T) {
	var buf bytes.Buffer
	old := Stream
	Stream = &buf
	defer func() { Stream = old }()

	Store.Printf("first\nsecond\n")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], " STORE first")
	assert.Contains(t, lines[1], " STORE second")
}
