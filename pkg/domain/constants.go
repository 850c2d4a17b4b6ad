package domain

// Format constants shared by the codec and the adapters.
const (
	// Separator splits a line into its tag and its payload. Only the first occurrence counts.
	Separator = ":"

	// FieldSeparator splits the fields of a ship payload.
	FieldSeparator = ","

	// CollectionHeader is the mandatory first line of a collection file.
	CollectionHeader = "PortCollection"

	// PortTag opens a new port section ("Port:<name>").
	PortTag = "Port"
)
