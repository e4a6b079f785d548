package data

// userRecord is the row-backed user entity handed to the handshake engine.
// Attribute writes are tracked so updates only touch changed columns.
type userRecord struct {
	attrs     map[string]any
	dirty     map[string]struct{}
	scenario  string
	persisted bool
}

func newUserRecord(scenario string) *userRecord {
	return &userRecord{
		attrs:    make(map[string]any),
		dirty:    make(map[string]struct{}),
		scenario: scenario,
	}
}

func loadedUserRecord(row map[string]any) *userRecord {
	return &userRecord{
		attrs:     row,
		dirty:     make(map[string]struct{}),
		persisted: true,
	}
}

// Attribute returns the named attribute value, if set.
func (u *userRecord) Attribute(name string) (any, bool) {
	v, ok := u.attrs[name]
	return v, ok
}

// SetAttribute overwrites the named attribute and marks it dirty.
func (u *userRecord) SetAttribute(name string, value any) {
	u.attrs[name] = value
	u.dirty[name] = struct{}{}
}

// TagScenario retags the record's validation scenario.
func (u *userRecord) TagScenario(scenario string) {
	u.scenario = scenario
}
