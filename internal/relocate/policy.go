package relocate

import "github.com/mj1618/tabshuttle/internal/model"

// Strategy says where a container's tabs go when moved.
type Strategy int

const (
	// MoveInPlace sends tabs to the requested target window.
	MoveInPlace Strategy = iota
	// NewWindow gives the container's tabs a fresh window of their own.
	NewWindow
)

func (s Strategy) String() string {
	if s == NewWindow {
		return "new-window"
	}
	return "move-in-place"
}

// Policy maps cookie store ids to strategies.
type Policy struct {
	overrides map[string]Strategy
}

// NewPolicy builds a policy in which the listed containers move to new
// windows and everything else moves in place.
func NewPolicy(newWindowContainers []string) Policy {
	p := Policy{overrides: make(map[string]Strategy, len(newWindowContainers))}
	for _, c := range newWindowContainers {
		p.overrides[c] = NewWindow
	}
	return p
}

// For returns the strategy for a cookie store.
func (p Policy) For(cookieStore string) Strategy {
	if cookieStore == "" {
		cookieStore = model.DefaultCookieStore
	}
	if s, ok := p.overrides[cookieStore]; ok {
		return s
	}
	return MoveInPlace
}

// Bucket is the part of a selection that shares one container.
type Bucket struct {
	CookieStore string
	Tabs        []model.Tab
}

// Partition groups tabs by container in order of first appearance. When more
// than one container is present, the default container goes last so that a
// first move sorts out the containered tabs before the uncontained majority.
func Partition(tabs []model.Tab) []Bucket {
	var buckets []Bucket
	pos := make(map[string]int)
	for _, t := range tabs {
		c := t.Container()
		i, ok := pos[c]
		if !ok {
			i = len(buckets)
			pos[c] = i
			buckets = append(buckets, Bucket{CookieStore: c})
		}
		buckets[i].Tabs = append(buckets[i].Tabs, t)
	}
	if len(buckets) < 2 {
		return buckets
	}
	i, ok := pos[model.DefaultCookieStore]
	if !ok || i == len(buckets)-1 {
		return buckets
	}
	def := buckets[i]
	buckets = append(buckets[:i], buckets[i+1:]...)
	return append(buckets, def)
}
