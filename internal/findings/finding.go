package findings

// Finding is one reported problem from a scanner, already normalized out of
// the scanner-specific format. Identity is not a field: it is derived from
// Keys plus the scan context by the fingerprint package.
type Finding struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
	Keys        []string `json:"keys"`
	Tags        []string `json:"tags,omitempty"`
}

// AddKey records an identity key, skipping duplicates.
func (f *Finding) AddKey(key string) {
	for _, k := range f.Keys {
		if k == key {
			return
		}
	}
	f.Keys = append(f.Keys, key)
}

// AddTag records an extra label, skipping duplicates.
func (f *Finding) AddTag(tag string) {
	for _, t := range f.Tags {
		if t == tag {
			return
		}
	}
	f.Tags = append(f.Tags, tag)
}

// ScanContext scopes one unit of work: one scanner's findings for one
// repository. Every tracker query carries these labels so issues from
// unrelated scanners or repos are never touched.
type ScanContext struct {
	Language   string `json:"language"`
	Tool       string `json:"tool"`
	Repository string `json:"repository"`
	Label      string `json:"label"`
}

// Labels returns the context's scoping labels in a stable order.
func (c ScanContext) Labels() []string {
	return []string{c.Repository, c.Language, c.Label, c.Tool}
}

// ScanResult is the input to one reconciliation pass.
type ScanResult struct {
	Context  ScanContext `json:"context"`
	Findings []Finding   `json:"findings"`
}
