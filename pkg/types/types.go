package types

// ImplementorEntry describes one trait implementation as emitted by
// documentation tooling. The registry treats entries as opaque blobs;
// only the fragment parser and the HTTP layer look inside.
type ImplementorEntry struct {
	// Formatted HTML reference string linking type and trait pages.
	// example: impl Debug for ChatTemplate
	Text string `json:"text" example:"impl Debug for ChatTemplate"`
	// Whether the implementation is synthetic (auto-derived by the compiler).
	// example: false
	Synthetic bool `json:"synthetic" example:"false"`
	// Fully qualified paths of the implementing types.
	// example: ["mistralrs_core::pipeline::ChatTemplate"]
	Types []string `json:"types" example:"[\"mistralrs_core::pipeline::ChatTemplate\"]"`
}

// ImplementorMap maps a component (crate/library) name to its ordered list
// of implementor entries. Maps are construct-once: after a map is handed to
// the registry it is never mutated.
type ImplementorMap map[string][]ImplementorEntry

// Clone returns a deep copy of the map. Entry slices are copied; entries
// themselves are treated as immutable values.
func (m ImplementorMap) Clone() ImplementorMap {
	if m == nil {
		return nil
	}
	out := make(ImplementorMap, len(m))
	for name, entries := range m {
		cp := make([]ImplementorEntry, len(entries))
		copy(cp, entries)
		out[name] = cp
	}
	return out
}

// EntryCount returns the total number of entries across all components.
func (m ImplementorMap) EntryCount() int {
	n := 0
	for _, entries := range m {
		n += len(entries)
	}
	return n
}
