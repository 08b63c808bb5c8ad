package dedupe

// Entries maps a dedup key to its current, possibly edited, text. Keys keep
// the order they were first inserted in.
type Entries struct {
	keys   []string
	values map[string]string
}

// NewEntries returns an empty map.
func NewEntries() *Entries {
	return &Entries{values: make(map[string]string)}
}

// Get returns the current value for key.
func (e *Entries) Get(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Has reports whether key is present.
func (e *Entries) Has(key string) bool {
	_, ok := e.values[key]
	return ok
}

// Set stores value under key, appending key if it is new.
func (e *Entries) Set(key, value string) {
	if _, ok := e.values[key]; !ok {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

// Keys returns a copy of the keys in insertion order.
func (e *Entries) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// Len is the number of entries.
func (e *Entries) Len() int {
	return len(e.keys)
}

// Edited reports whether key holds something other than its original text.
func (e *Entries) Edited(key string) bool {
	v, ok := e.values[key]
	return ok && v != key
}

// Each calls fn for every entry in insertion order until fn returns false.
func (e *Entries) Each(fn func(key, value string) bool) {
	for _, k := range e.keys {
		if !fn(k, e.values[k]) {
			return
		}
	}
}
