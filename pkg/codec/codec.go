package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/harbor/pkg/collection"
	"github.com/aretw0/harbor/pkg/domain"
)

// maxLineSize bounds a single line of collection text.
const maxLineSize = 1 << 20

const portPrefix = domain.PortTag + domain.Separator

// Dump writes c to w. Ports are written in insertion order and ships in place order.
func Dump(w io.Writer, c *collection.Collection) error {
	names := c.Names()
	for _, name := range names {
		if strings.ContainsAny(name, "\r\n") {
			return fmt.Errorf("%w: port name %q contains a line break", domain.ErrInvalidFormat, name)
		}
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(domain.CollectionHeader + "\n")
	for _, name := range names {
		p, _ := c.Get(name)
		bw.WriteString(portPrefix + name + "\n")

		for i := 0; ; i++ {
			ship, ok := p.GetAt(i)
			if !ok {
				break
			}
			bw.WriteString(string(ship.Kind()) + domain.Separator + ship.Describe() + "\n")
		}
	}
	if err := bw.Flush(); err != nil {
		return &domain.IOError{Op: "write", Path: "<stream>", Err: err}
	}
	return nil
}

// Load reads a collection from r, sizing every port for width × height.
// Nothing is returned unless the whole text is valid.
func Load(r io.Reader, width, height int) (*collection.Collection, error) {
	return load(r, width, height, "<stream>")
}

func load(r io.Reader, width, height int, source string) (*collection.Collection, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, scanError(err, source)
		}
		return nil, fmt.Errorf("%w: empty input, expected %q header", domain.ErrInvalidFormat, domain.CollectionHeader)
	}
	if header := trimCR(sc.Text()); header != domain.CollectionHeader {
		return nil, fmt.Errorf("%w: line 1: expected %q, got %q", domain.ErrInvalidFormat, domain.CollectionHeader, header)
	}

	c := collection.New(width, height)
	var (
		current     *collection.ShipPort
		currentName string
	)
	for lineNo := 2; sc.Scan(); lineNo++ {
		line := trimCR(sc.Text())

		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, portPrefix):
			currentName = line[len(portPrefix):]
			if !c.AddPort(currentName) {
				return nil, fmt.Errorf("%w: line %d: duplicate port %q", domain.ErrInvalidFormat, lineNo, currentName)
			}
			current, _ = c.Get(currentName)

		default:
			kind, payload, ok := strings.Cut(line, domain.Separator)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: missing %q separator", domain.ErrInvalidFormat, lineNo, domain.Separator)
			}
			if current == nil {
				return nil, fmt.Errorf("%w: line %d: ship before any port", domain.ErrInvalidFormat, lineNo)
			}
			ship, err := domain.Decode(kind, payload)
			if err != nil {
				var de *domain.DecodeError
				if errors.As(err, &de) {
					de.Line = lineNo
				}
				return nil, err
			}
			if err := current.Insert(ship); err != nil {
				return nil, fmt.Errorf("line %d: port %q: %w", lineNo, currentName, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, scanError(err, source)
	}
	return c, nil
}

// Marshal returns the text form of c.
func Marshal(c *collection.Collection) ([]byte, error) {
	var buf bytes.Buffer
	if err := Dump(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal replaces the contents of c with the collection encoded in data.
// c is left untouched when data is rejected.
func Unmarshal(data []byte, c *collection.Collection) error {
	fresh, err := Load(bytes.NewReader(data), c.Width(), c.Height())
	if err != nil {
		return err
	}
	c.Replace(fresh)
	return nil
}

func trimCR(s string) string {
	return strings.TrimSuffix(s, "\r")
}

func scanError(err error, source string) error {
	if errors.Is(err, bufio.ErrTooLong) {
		return fmt.Errorf("%w: line longer than %d bytes", domain.ErrInvalidFormat, maxLineSize)
	}
	return &domain.IOError{Op: "read", Path: source, Err: err}
}
