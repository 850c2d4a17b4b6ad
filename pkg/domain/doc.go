/*
Package domain contains the core domain models for the harbor system.

It defines the ship variants stored in ports, their stable text encoding and the
decoder table used to restore them, plus the sentinel errors shared by every layer.
This package is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Ship: A closed variant (DefaultShip, MotorShip) identified by its Kind tag.
  - Kind: The type tag written in front of every ship line of a collection file.
  - Decoders: The tag → decoder dispatch table built once at package init.
  - SanitizeName: The check every port name entered by a user goes through.
*/
package domain
