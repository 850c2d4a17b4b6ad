// Package collection implements the named registry of ports.
package collection

import (
	"slices"

	"github.com/aretw0/harbor/pkg/domain"
	"github.com/aretw0/harbor/pkg/port"
)

// ShipPort is the port type stored in a Collection.
type ShipPort = port.Port[domain.Ship]

// Collection maps unique names to ports, remembering insertion order.
// Every port is built with the collection's width and height.
// Not safe for concurrent use.
type Collection struct {
	width  int
	height int
	ports  map[string]*ShipPort
	order  []string
}

// New creates an empty collection whose ports are sized for width × height.
func New(width, height int) *Collection {
	return &Collection{
		width:  width,
		height: height,
		ports:  make(map[string]*ShipPort),
	}
}

// Width returns the drawing width every port is sized with.
func (c *Collection) Width() int { return c.width }

// Height returns the drawing height every port is sized with.
func (c *Collection) Height() int { return c.height }

// Len returns the number of ports.
func (c *Collection) Len() int { return len(c.order) }

// AddPort creates an empty port named name. It does nothing if the name is taken.
// It reports whether a port was created.
func (c *Collection) AddPort(name string) bool {
	if _, ok := c.ports[name]; ok {
		return false
	}
	c.ports[name] = port.New[domain.Ship](c.width, c.height)
	c.order = append(c.order, name)
	return true
}

// DelPort discards the port named name and its ships. Unknown names are ignored.
// It reports whether a port was removed.
func (c *Collection) DelPort(name string) bool {
	if _, ok := c.ports[name]; !ok {
		return false
	}
	delete(c.ports, name)
	c.order = slices.DeleteFunc(c.order, func(n string) bool { return n == name })
	return true
}

// Get returns the port bound to name, or false when there is none.
func (c *Collection) Get(name string) (*ShipPort, bool) {
	p, ok := c.ports[name]
	return p, ok
}

// Names returns the port names in insertion order.
func (c *Collection) Names() []string {
	return slices.Clone(c.order)
}

// Replace swaps in the ports of other, discarding the current ones.
// other must not be used afterwards.
func (c *Collection) Replace(other *Collection) {
	c.width = other.width
	c.height = other.height
	c.ports = other.ports
	c.order = other.order
	other.ports = make(map[string]*ShipPort)
	other.order = nil
}

// Clear removes every port.
func (c *Collection) Clear() {
	c.ports = make(map[string]*ShipPort)
	c.order = nil
}
