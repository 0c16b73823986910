package parser

// Interner deduplicates repeated field values.
//
// Columns in delimited files tend to repeat the same handful of values:
// - Categorical columns (e.g., "open", "closed", "pending")
// - Country and currency codes
// - Header names, which are shared by every record
//
// By keeping one canonical copy of each string, records retained after
// parsing share storage instead of holding a copy each. An Interner is not
// safe for concurrent use; share one across parsers only sequentially.
type Interner struct {
	pool map[string]string
	hits int
}

// NewInterner creates a new interner with the given initial capacity.
func NewInterner(capacity int) *Interner {
	return &Interner{
		pool: make(map[string]string, capacity),
	}
}

// Intern returns the canonical version of s.
func (i *Interner) Intern(s string) string {
	if interned, ok := i.pool[s]; ok {
		i.hits++
		return interned
	}
	i.pool[s] = s
	return s
}

// Size returns the number of unique strings in the pool.
func (i *Interner) Size() int {
	return len(i.pool)
}

// Hits returns how many Intern calls were served from the pool.
func (i *Interner) Hits() int {
	return i.hits
}

// Reset clears the pool.
func (i *Interner) Reset() {
	i.pool = make(map[string]string)
	i.hits = 0
}
