package entity

import "sort"

// Tally counts instances per availability zone and instance type:
// zone -> instance type -> count.
//
// A missing key means zero. Add never stores a zero, but the result of Diff
// may hold explicit zeros (and negatives) for every key seen on either side.
type Tally map[string]map[string]int

// NewTally cria uma Tally vazia.
func NewTally() Tally {
	return make(Tally)
}

// Add increments the count for (zone, instanceType) by n. A zero n is a no-op.
func (t Tally) Add(zone, instanceType string, n int) {
	if n == 0 {
		return
	}
	t.set(zone, instanceType, t.get(zone, instanceType)+n)
}

// Count returns the stored count and whether the key is present.
func (t Tally) Count(zone, instanceType string) (int, bool) {
	types, ok := t[zone]
	if !ok {
		return 0, false
	}
	n, ok := types[instanceType]
	return n, ok
}

// Get returns the count for (zone, instanceType), zero when absent.
func (t Tally) Get(zone, instanceType string) int {
	return t.get(zone, instanceType)
}

func (t Tally) get(zone, instanceType string) int {
	if types, ok := t[zone]; ok {
		return types[instanceType]
	}
	return 0
}

func (t Tally) set(zone, instanceType string, n int) {
	types, ok := t[zone]
	if !ok {
		types = make(map[string]int)
		t[zone] = types
	}
	types[instanceType] = n
}

// Merge adds every count of other into t in place.
func (t Tally) Merge(other Tally) {
	for zone, types := range other {
		for instanceType, n := range types {
			t.set(zone, instanceType, t.get(zone, instanceType)+n)
		}
	}
}

// Clone returns a deep copy of t.
func (t Tally) Clone() Tally {
	out := make(Tally, len(t))
	for zone, types := range t {
		inner := make(map[string]int, len(types))
		for instanceType, n := range types {
			inner[instanceType] = n
		}
		out[zone] = inner
	}
	return out
}

// negate returns a copy of t with every count negated.
func (t Tally) negate() Tally {
	out := make(Tally, len(t))
	for zone, types := range t {
		for instanceType, n := range types {
			out.set(zone, instanceType, -n)
		}
	}
	return out
}

// Zones returns the zones of t sorted lexicographically.
func (t Tally) Zones() []string {
	zones := make([]string, 0, len(t))
	for zone := range t {
		zones = append(zones, zone)
	}
	sort.Strings(zones)
	return zones
}

// InstanceTypes returns every instance type present in any zone, sorted.
func (t Tally) InstanceTypes() []string {
	seen := make(map[string]struct{})
	for _, types := range t {
		for instanceType := range types {
			seen[instanceType] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for instanceType := range seen {
		out = append(out, instanceType)
	}
	sort.Strings(out)
	return out
}

// Total sums every count in t.
func (t Tally) Total() int {
	total := 0
	for _, types := range t {
		for _, n := range types {
			total += n
		}
	}
	return total
}

// equal reports whether t and other hold exactly the same keys and counts.
func (t Tally) equal(other Tally) bool {
	if len(t) != len(other) {
		return false
	}
	for zone, types := range t {
		otherTypes, ok := other[zone]
		if !ok || len(types) != len(otherTypes) {
			return false
		}
		for instanceType, n := range types {
			m, ok := otherTypes[instanceType]
			if !ok || m != n {
				return false
			}
		}
	}
	return true
}

// Sum returns a new Tally holding a+b for every key present in either input.
func Sum(a, b Tally) Tally {
	out := a.Clone()
	out.Merge(b)
	return out
}

// Diff returns a new Tally holding a-b for every key present in either input.
// Counts may be negative (over-reserved) or zero.
func Diff(a, b Tally) Tally {
	return Sum(a, b.negate())
}
