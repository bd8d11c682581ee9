package snapshot

// detachednessSlot is the position of the optional detachedness field
// appended by newer producers.
const detachednessSlot = 6

// Layout is the effective record width of one document. Producers append
// fields over time, so widths are read from the document rather than fixed.
type Layout struct {
	NodeFieldCount int
	EdgeFieldCount int
}

// ResolveLayout derives the record widths from the declared field lists.
func ResolveLayout(meta Meta) Layout {
	return Layout{
		NodeFieldCount: len(meta.NodeFields),
		EdgeFieldCount: len(meta.EdgeFields),
	}
}

// HasDetachedness reports whether node records carry a detachedness slot.
func (l Layout) HasDetachedness() bool {
	return l.NodeFieldCount > detachednessSlot
}
