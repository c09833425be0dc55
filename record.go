package edgelimit

import (
	"encoding/json"
	"math"
	"sort"
)

// Record is the persisted history for one tracked key: how many actions
// happened at each unix second, kept in ascending order. Records are values;
// operations return new records and never mutate their receiver.
type Record struct {
	stamps []stamp
}

type stamp struct {
	unix  int64
	count uint64
}

// NewRecord builds a record from raw unix-second timestamps. Repeats are
// collapsed into counts; order of the input does not matter.
func NewRecord(unixSeconds ...int64) Record {
	sorted := make([]int64, len(unixSeconds))
	copy(sorted, unixSeconds)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var rec Record
	for _, ts := range sorted {
		rec = rec.add(ts)
	}
	return rec
}

// Total is the number of actions the record holds across all seconds.
func (r Record) Total() uint64 {
	var n uint64
	for _, s := range r.stamps {
		n += s.count
	}
	return n
}

// Empty reports whether the record holds no actions.
func (r Record) Empty() bool { return len(r.stamps) == 0 }

// add returns a copy of r with one more action at the given second. The
// second may be older than the newest stamp (a regressed clock); ordering
// is preserved either way.
func (r Record) add(unix int64) Record {
	out := make([]stamp, len(r.stamps), len(r.stamps)+1)
	copy(out, r.stamps)

	i := sort.Search(len(out), func(i int) bool { return out[i].unix >= unix })
	if i < len(out) && out[i].unix == unix {
		if out[i].count < math.MaxUint64 {
			out[i].count++
		}
		return Record{stamps: out}
	}
	out = append(out, stamp{})
	copy(out[i+1:], out[i:])
	out[i] = stamp{unix: unix, count: 1}
	return Record{stamps: out}
}

// prune returns the part of r still inside the horizon at now, dropping
// every second older than now-horizon. Seconds in the future relative to a
// regressed now are kept; the store is the source of truth, not the clock.
func (r Record) prune(now, horizonSecs int64) Record {
	cutoff := now - horizonSecs
	i := sort.Search(len(r.stamps), func(i int) bool { return r.stamps[i].unix >= cutoff })
	if i == 0 {
		return r
	}
	return Record{stamps: r.stamps[i:]}
}

// countWithin sums the actions inside the trailing window ending at now,
// counting a second t when now-t <= windowSecs. oldest is the earliest
// counted second; ok is false when nothing fell inside the window.
func (r Record) countWithin(now, windowSecs int64) (sum uint64, oldest int64, ok bool) {
	start := now - windowSecs
	for _, s := range r.stamps {
		if s.unix < start {
			continue
		}
		if !ok {
			oldest = s.unix
			ok = true
		}
		sum += s.count
	}
	return sum, oldest, ok
}

// DecodeRecord parses a stored value into a Record. Absent values (nil or
// empty) decode to an empty record. So do malformed values: the store is
// external and shared, and a poisoned value must degrade to "no history"
// rather than deny a legitimate client until it expires.
func DecodeRecord(raw []byte) Record {
	rec, _ := decodeRecord(raw)
	return rec
}

// decodeRecord is DecodeRecord plus the swallowed parse error, so callers
// that log or count fallbacks can observe them.
func decodeRecord(raw []byte) (Record, error) {
	if len(raw) == 0 {
		return Record{}, nil
	}
	var counts map[int64]uint64
	if err := json.Unmarshal(raw, &counts); err != nil {
		return Record{}, err
	}

	stamps := make([]stamp, 0, len(counts))
	for unix, count := range counts {
		if count == 0 {
			continue
		}
		stamps = append(stamps, stamp{unix: unix, count: count})
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].unix < stamps[j].unix })
	return Record{stamps: stamps}, nil
}

// EncodeRecord serializes a record into the stored form: a JSON object
// mapping unix seconds to action counts. Decoding the result yields the
// record back exactly.
func EncodeRecord(rec Record) ([]byte, error) {
	counts := make(map[int64]uint64, len(rec.stamps))
	for _, s := range rec.stamps {
		counts[s.unix] = s.count
	}
	return json.Marshal(counts)
}
