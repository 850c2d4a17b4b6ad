/*
Package port implements the fixed-capacity slot container that holds ships.

A Port is sized once from the drawing area it is shown in: every place is a
PlaceWidth × PlaceHeight cell, so a width × height area holds
floor(width/PlaceWidth) * floor(height/PlaceHeight) ships. Places are dense and
insertion-ordered; removing a ship shifts the following ones left.

Port is not safe for concurrent use. Wrap it (see package harbor) when several
goroutines need to mutate the same port.
*/
package port
