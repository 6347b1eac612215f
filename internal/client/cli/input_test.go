package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  hello \n"))

	got, err := GetSimpleText(reader, "Enter something", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Contains(t, out.String(), "Enter something")
	assert.Contains(t, out.String(), "> ")
}

func TestGetSimpleText_EOFWithPartialLine(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("partial"))

	got, err := GetSimpleText(reader, "Enter something", &out)
	require.NoError(t, err)
	assert.Equal(t, "partial", got)
}

func TestGetSimpleText_EOFWithNoInput(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(""))

	_, err := GetSimpleText(reader, "Enter something", &out)
	assert.Error(t, err)
}

func TestGetSecret(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(fd int) ([]byte, error) {
		return []byte(" 123456 "), nil
	}

	var out bytes.Buffer
	got, err := GetSecret("Enter sign-in code", &out)
	require.NoError(t, err)
	assert.Equal(t, "123456", got)
	assert.Contains(t, out.String(), "Enter sign-in code: ")
}
