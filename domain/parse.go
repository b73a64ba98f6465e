package domain

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parse reads hierarchy definitions, one per line, in the form
//
//	Root/Path/To: a, b, c
//
// creating the nodes a, b and c under Root/Path/To. The first path element
// names the hierarchy root (and thereby the table column the hierarchy
// attaches to); several roots may be defined in one stream and their lines
// may interleave. Blank lines are skipped, surrounding whitespace is
// stripped from every element.
//
// Returns ErrBadLine (wrapped with the offending line number) when a
// non-blank line has no colon separator.
func Parse(r io.Reader) ([]*Domain, error) {
	var domains []*Domain

	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		path, values, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("line %d: %w", n, ErrBadLine)
		}

		elems := strings.Split(path, "/")
		root := strings.TrimSpace(elems[0])
		elems = elems[1:]
		for i := range elems {
			elems[i] = strings.TrimSpace(elems[i])
		}

		// Find an existing root of this name, or start one.
		var d *Domain
		for _, x := range domains {
			if x.name == root {
				d = x

				break
			}
		}
		if d == nil {
			d = New(root)
			domains = append(domains, d)
		}

		// Add each listed value under the path, reusing the prefix.
		for _, v := range strings.Split(values, ",") {
			d.Add(append(elems, strings.TrimSpace(v))...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("domain: read definitions: %w", err)
	}

	return domains, nil
}

// ParseFile reads hierarchy definitions from path via Parse.
// An empty path yields no domains and no error, so callers can treat the
// hierarchy file as optional.
func ParseFile(path string) ([]*Domain, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("domain: open definitions: %w", err)
	}
	defer f.Close()

	return Parse(f)
}
