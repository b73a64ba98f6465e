// SPDX-License-Identifier: MIT

package table

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kkernick/MG-GA/domain"
)

// LoadOptions configures Read and Load. Per-column token lists shorter than
// the header are padded with defaults, so callers may describe only the
// leading columns.
type LoadOptions struct {
	// Delim is the field delimiter. Empty guesses from the header line,
	// trying tab, then comma, then space.
	Delim string

	// Kinds holds per-column type tokens ("s" or "i"). Default "s".
	Kinds []string

	// Weights holds per-column weight tokens. Default "1".
	Weights []string

	// Sensitivities holds per-column sensitivity tokens ("i", "q" or
	// "s"). Default "q".
	Sensitivities []string

	// Domains are the parsed generalization hierarchies. Each is matched
	// to the column whose name equals the hierarchy root's name.
	Domains []*domain.Domain
}

// token returns the i-th element of toks, or def past the end.
func token(toks []string, i int, def string) string {
	if i < len(toks) && toks[i] != "" {
		return toks[i]
	}
	return def
}

// guessDelim picks the delimiter from the header line: the first of tab,
// space and comma that occurs in it.
func guessDelim(header string) string {
	for _, d := range []string{"\t", " ", ","} {
		if strings.Contains(header, d) {
			return d
		}
	}
	return ","
}

// Read parses a delimited table. The first line is the header; every later
// non-blank line is one row. Fields are trimmed of surrounding whitespace.
func Read(r io.Reader, opts LoadOptions) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var header string
	for sc.Scan() {
		if header = strings.TrimSpace(sc.Text()); header != "" {
			break
		}
	}
	if header == "" {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: empty input", ErrShape)
	}
	delim := opts.Delim
	if delim == "" {
		delim = guessDelim(header)
	}

	split := func(line string) []string {
		fields := strings.Split(line, delim)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		return fields
	}

	names := split(header)
	specs := make([]Spec, len(names))
	for i, name := range names {
		kind, err := ParseKind(token(opts.Kinds, i, "s"))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		sens, err := ParseSensitivity(token(opts.Sensitivities, i, "q"))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		weight, err := strconv.ParseFloat(token(opts.Weights, i, "1"), 64)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w: %q",
				name, ErrBadWeight, token(opts.Weights, i, "1"))
		}
		specs[i] = Spec{Name: name, Kind: kind, Weight: weight, Sensitivity: sens}
		for _, d := range opts.Domains {
			if d.Name() == name {
				specs[i].Hierarchy = d

				break
			}
		}
	}

	var rows [][]string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rows = append(rows, split(line))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return New(specs, rows)
}

// Load reads a delimited table from a file.
func Load(path string, opts LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
