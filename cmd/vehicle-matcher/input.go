package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// readDescriptions returns the non-blank lines of r that are not # comments,
// trimmed.
func readDescriptions(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read descriptions: %w", err)
	}
	return out, nil
}

// loadDescriptions reads path, or stdin when path is "-".
func loadDescriptions(path string) ([]string, error) {
	if path == "-" {
		return readDescriptions(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	return readDescriptions(f)
}
