package config

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/subosito/gotenv"
)

// LoadEnvFromFile - Loads the environment variables from a file
func LoadEnvFromFile(filename string) error {
	if filename == "" {
		return nil
	}
	// gotenv trims trailing spaces but not tabs, filter them first
	f, err := os.Open(filename)
	if err != nil {
		return ErrReadingEnvFile.WithCause(err).FormatError(filename)
	}
	defer f.Close()

	buf := filterLines(f)
	if err := gotenv.Apply(bytes.NewReader(buf.Bytes())); err != nil {
		return ErrReadingEnvFile.WithCause(err).FormatError(filename)
	}
	return nil
}

func filterLines(r io.Reader) bytes.Buffer {
	var out bytes.Buffer
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		out.WriteString(strings.TrimRight(scanner.Text(), " \t"))
		out.WriteByte('\n')
	}
	return out
}
