/*
Package codec converts a port collection to and from its line-oriented text form.

The format is:

	PortCollection
	Port:<name>
	<Kind>:<ship description>
	...

The first line is mandatory. A line starting with "Port:" opens a port; every other
non-blank line is a ship of the most recently opened port, split on its first ":".
There is no version field: any change to the layout is a breaking change.

Loading is all-or-nothing. Unmarshal and LoadFile build a fresh collection and only
swap it into the target once every line has been accepted.
*/
package codec
