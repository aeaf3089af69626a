package hitcounter

// countBucket is a node in the bucket list: every domainEntry reachable from
// it shares the same count. Buckets are strictly increasing in count from
// floor toward top.
//
// Invariants:
//   - prev.count < count < next.count, whenever those neighbors exist.
//   - entriesHead is nil only for the floor bucket; every other bucket is
//     unlinked the moment its entry list empties.
type countBucket struct {
	count int

	prev *countBucket
	next *countBucket

	entriesHead *domainEntry
}

// domainEntry is a node representing a single domain. It lives in exactly
// one bucket's entry list at a time.
type domainEntry struct {
	domain string

	prev *domainEntry
	next *domainEntry

	bucket *countBucket
}

// bucketList is the doubly-linked list of count buckets described in the
// package design note: a permanent floor bucket at count 1, growing toward
// top as entries are promoted. It owns no synchronization of its own —
// Counter serializes access to it with a single sync.RWMutex.
type bucketList struct {
	floor *countBucket
	top   *countBucket
}

func newBucketList() *bucketList {
	floor := &countBucket{count: 1}
	return &bucketList{floor: floor, top: floor}
}

// insertNew attaches a fresh entry at the head of the floor bucket's entry
// list. The floor bucket always exists, so this never creates a bucket.
func (l *bucketList) insertNew(domain string) *domainEntry {
	entry := &domainEntry{domain: domain, bucket: l.floor}
	l.pushFront(l.floor, entry)
	return entry
}

// promote advances entry to count+1, creating or reusing the destination
// bucket as needed, and unlinking the source bucket if it becomes empty and
// is not the floor. See SPEC_FULL.md §4.1 for the step-by-step contract this
// implements.
func (l *bucketList) promote(entry *domainEntry) {
	b := entry.bucket
	c := b.count
	bNext := b.next

	// Step 1: detach entry from b's entry list.
	l.detach(b, entry)

	// Step 2: decide whether b should be unlinked once the splice below
	// is safely in place. The floor bucket is never unlinked.
	unlinkB := b.entriesHead == nil && b != l.floor

	// Step 3: find or create the destination bucket.
	var dest *countBucket
	if bNext != nil && bNext.count == c+1 {
		dest = bNext
	} else {
		dest = &countBucket{count: c + 1, prev: b, next: bNext}
		b.next = dest
		if bNext != nil {
			bNext.prev = dest
		} else {
			l.top = dest
		}
	}

	// Step 4: attach entry at the destination's entry list head.
	l.pushFront(dest, entry)

	// Step 5: unlink b now, after the destination splice, so a freshly
	// created destination is never orphaned by an earlier unlink.
	if unlinkB {
		l.unlink(b)
	}

	// Step 6: advance top if the destination is now the highest bucket.
	if dest.count > l.top.count {
		l.top = dest
	}
}

// pushFront attaches entry at the head of bucket's entry list and sets its
// back-reference.
func (l *bucketList) pushFront(bucket *countBucket, entry *domainEntry) {
	entry.bucket = bucket
	entry.prev = nil
	entry.next = bucket.entriesHead
	if bucket.entriesHead != nil {
		bucket.entriesHead.prev = entry
	}
	bucket.entriesHead = entry
}

// detach removes entry from bucket's entry list, fixing neighbor links and
// advancing entriesHead if entry was the head.
func (l *bucketList) detach(bucket *countBucket, entry *domainEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		bucket.entriesHead = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	}
	entry.prev = nil
	entry.next = nil
}

// unlink removes an empty, non-floor bucket from the bucket list.
func (l *bucketList) unlink(bucket *countBucket) {
	if bucket.prev != nil {
		bucket.prev.next = bucket.next
	}
	if bucket.next != nil {
		bucket.next.prev = bucket.prev
	}
	if l.top == bucket {
		l.top = bucket.prev
	}
}

// walk visits domains from top toward floor, most-recently-touched entry
// first within each bucket, calling visit for each until it returns false or
// the list is exhausted.
func (l *bucketList) walk(visit func(entry *domainEntry) bool) {
	b := l.top
	for b != nil {
		e := b.entriesHead
		for e != nil {
			if !visit(e) {
				return
			}
			e = e.next
		}
		b = b.prev
	}
}
