/*
Package harbor stores ships in fixed-capacity ports and saves whole port collections as text.

A port is sized for a drawing area: every place is 210 wide and 120 tall, so a
900×300 area holds 4 columns of 2 places. Ships fill the lowest free place and
taking one shifts the later ships left.

# Layout

  - pkg/domain: ship variants, the line format constants and sentinel errors.
  - pkg/port: the generic fixed-capacity container.
  - pkg/collection: named ports sharing one drawing area.
  - pkg/codec: the PortCollection text format (Dump, Load, SaveFile, LoadFile).
  - pkg/harbor: a concurrency-safe Manager persisting snapshots through pkg/ports.
  - pkg/adapters: snapshot stores (memory, file, redis, sqlite) and the HTTP and MCP surfaces.

# Text format

	PortCollection
	Port:North
	DefaultShip:100,200,true
	MotorShip:90,150,false,true,false,true
	Port:South

# Usage

	m := harbor.New(900, 300, file.New(".harbor/snapshots"))
	if _, err := m.LoadOrInit(ctx, "default"); err != nil {
		log.Fatal(err)
	}
	m.AddPort("North")
	if _, err := m.Park("North", domain.DefaultShip{MaxSpeed: 100, Weight: 200, Deck: true}); err != nil {
		log.Fatal(err)
	}
	if err := m.Save(ctx, "default"); err != nil {
		log.Fatal(err)
	}
*/
package harbor
