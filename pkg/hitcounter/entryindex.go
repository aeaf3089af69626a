package hitcounter

// entryIndex maps a domain to its entry node, giving O(1) average lookup on
// Add. It is a thin wrapper around a built-in map rather than a hand-rolled
// hash table: collision and growth policy are implementation-free per
// SPEC_FULL.md §4.2, and the single-writer-lock discipline in Counter rules
// out a sharded/concurrent map (it would let a reader race a promotion).
type entryIndex struct {
	entries map[string]*domainEntry
}

func newEntryIndex() *entryIndex {
	return &entryIndex{entries: make(map[string]*domainEntry)}
}

func (idx *entryIndex) get(domain string) (*domainEntry, bool) {
	e, ok := idx.entries[domain]
	return e, ok
}

func (idx *entryIndex) put(domain string, entry *domainEntry) {
	idx.entries[domain] = entry
}

func (idx *entryIndex) len() int {
	return len(idx.entries)
}
