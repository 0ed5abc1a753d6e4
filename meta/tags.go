package meta

// Tags hold the metadata extracted from the chunks of a CAF file, as an
// ordered list of key value pairs. Keys may repeat; each chunk contributes
// its pairs independently of the others.
type Tags struct {
	// Key value pairs in the order extracted.
	Pairs [][2]string
}

// Add appends a key value pair.
func (tags *Tags) Add(key, value string) {
	tags.Pairs = append(tags.Pairs, [2]string{key, value})
}

// Get returns the value of the last pair with the given key, or the empty
// string when no such pair exists. A later pair shadows an earlier pair with
// the same key.
func (tags *Tags) Get(key string) string {
	for i := len(tags.Pairs) - 1; i >= 0; i-- {
		if tags.Pairs[i][0] == key {
			return tags.Pairs[i][1]
		}
	}
	return ""
}

// Merge appends all pairs of src.
func (tags *Tags) Merge(src *Tags) {
	tags.Pairs = append(tags.Pairs, src.Pairs...)
}
