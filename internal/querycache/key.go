package querycache

// FilterAll is the filter of an unfiltered read.
const FilterAll = "all"

// Key identifies a cached read: the resource name plus the active filter.
// A Key with an empty Filter addresses every filter of the resource and is
// only meaningful for Subscribe.
type Key struct {
	Resource string
	Filter   string
}

// ResourceKey addresses every cached read of resource.
func ResourceKey(resource string) Key {
	return Key{Resource: resource}
}

func (k Key) String() string {
	if k.Filter == "" {
		return k.Resource + "/*"
	}
	return k.Resource + "/" + k.Filter
}

// Covers reports whether a subscription on k should see events for other.
func (k Key) Covers(other Key) bool {
	if k.Resource != other.Resource {
		return false
	}
	return k.Filter == "" || k.Filter == other.Filter
}

type EventKind int

const (
	// Updated: a fetch for the key completed and was stored.
	Updated EventKind = iota + 1
	// Invalidated: cached data for the key was dropped by a mutation.
	Invalidated
)

func (k EventKind) String() string {
	switch k {
	case Updated:
		return "updated"
	case Invalidated:
		return "invalidated"
	default:
		return "unknown"
	}
}

type Event struct {
	Key  Key
	Kind EventKind
}

// Freshness of a cache slot as seen by Lookup.
type Freshness int

const (
	Missing Freshness = iota
	Stale
	Fresh
)
