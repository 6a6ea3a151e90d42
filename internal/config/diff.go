package config

// ChangeSet describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked; transport and
// listen addresses require a restart and are deliberately absent.
type ChangeSet struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// SearchChanged is true when any search client setting differs. The
	// client is rebuilt, not mutated, by whoever applies the change.
	SearchChanged bool

	// TranscriptChanged is true when presentation defaults differ.
	TranscriptChanged bool
}

// Any reports whether the change set contains any change at all.
func (d ChangeSet) Any() bool {
	return d.LogLevelChanged || d.SearchChanged || d.TranscriptChanged
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ChangeSet {
	d := ChangeSet{}

	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}
	if old.Search != new.Search {
		d.SearchChanged = true
	}
	if old.Transcript != new.Transcript {
		d.TranscriptChanged = true
	}

	return d
}
