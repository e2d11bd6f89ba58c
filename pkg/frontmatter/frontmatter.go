package frontmatter

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors.
var (
	// ErrMissing is returned by ParseRequired when no frontmatter is present.
	ErrMissing = errors.New("missing frontmatter")

	// ErrUnterminated indicates an opening delimiter without a closing one.
	ErrUnterminated = errors.New("missing closing frontmatter delimiter")
)

const delimiter = "---"

// Parse decodes optional frontmatter into matter and returns the body.
// Without frontmatter the full content is returned unchanged.
func Parse(r io.Reader, matter any) (body []byte, err error) {
	return parse(r, matter, false)
}

// ParseRequired is like Parse but fails with ErrMissing or ErrUnterminated
// when the document has no complete frontmatter block.
func ParseRequired(r io.Reader, matter any) (body []byte, err error) {
	return parse(r, matter, true)
}

func parse(r io.Reader, matter any, required bool) ([]byte, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	header, body, err := Split(content)
	switch {
	case errors.Is(err, ErrMissing), errors.Is(err, ErrUnterminated):
		if required {
			return nil, err
		}
		return content, nil
	case err != nil:
		return nil, err
	}

	if err := yaml.Unmarshal(header, matter); err != nil {
		return nil, err
	}
	return body, nil
}

// Split separates the frontmatter block from the body without decoding it.
func Split(content []byte) (header, body []byte, err error) {
	first, rest, _ := cutLine(content)
	if strings.TrimSpace(string(first)) != delimiter {
		return nil, nil, ErrMissing
	}

	offset := 0
	for {
		line, tail, more := cutLine(rest[offset:])
		if strings.TrimSpace(string(line)) == delimiter {
			return rest[:offset], tail, nil
		}
		if !more {
			return nil, nil, ErrUnterminated
		}
		offset = len(rest) - len(tail)
	}
}

// cutLine returns the first line of b without its line ending and the
// remainder after it. more is false when b had no newline.
func cutLine(b []byte) (line, rest []byte, more bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return bytes.TrimSuffix(b, []byte("\r")), nil, false
	}
	return bytes.TrimSuffix(b[:i], []byte("\r")), b[i+1:], true
}

// ParseHeader decodes only the frontmatter, reading no further than the
// closing delimiter. A document without frontmatter leaves matter untouched
// and returns nil.
func ParseHeader(r io.Reader, matter any) error {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return scanner.Err()
	}
	if strings.TrimSpace(scanner.Text()) != delimiter {
		return nil
	}

	var buf bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == delimiter {
			return yaml.Unmarshal(buf.Bytes(), matter)
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return ErrUnterminated
}

// Format renders matter as a frontmatter block followed by body.
func Format(matter any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(matter); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString(delimiter + "\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}
