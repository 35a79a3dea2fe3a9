package iocli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdio_ReadInput(t *testing.T) {
	var out bytes.Buffer
	io := NewStdioWith(strings.NewReader("  alice  \n"), &out)

	input, err := io.ReadInput("Username: ")
	require.NoError(t, err)
	assert.Equal(t, "alice", input)
	assert.Equal(t, "Username: ", out.String())
}

func TestStdio_ReadInputWithoutTrailingNewline(t *testing.T) {
	var out bytes.Buffer
	io := NewStdioWith(strings.NewReader("alice"), &out)

	input, err := io.ReadInput("> ")
	require.NoError(t, err)
	assert.Equal(t, "alice", input)
}

func TestStdio_PrintfPrintln(t *testing.T) {
	var out bytes.Buffer
	io := NewStdioWith(strings.NewReader(""), &out)

	io.Printf("streak: %d\n", 7)
	io.Println("done")
	assert.Equal(t, "streak: 7\ndone\n", out.String())
}
