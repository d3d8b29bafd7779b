package config

// Section is one named group of settings persisted in the config file.
//
// Data and SetData exchange plain maps so a Store can persist sections without
// knowing their concrete types.
type Section interface {
	// ID is the key under which the section is stored.
	ID() string

	// Title is a short human readable name.
	Title() string

	// Description explains what the section controls.
	Description() string

	// Data returns a snapshot of the section's values.
	Data() map[string]interface{}

	// SetData applies values loaded from a Store. Unknown keys are ignored.
	SetData(data map[string]interface{}) error

	// Validate reports whether the current values are usable.
	Validate() error

	// Reset restores defaults.
	Reset()
}
