package model

import "encoding/json"

// ClaimStatus tracks the verification state of a claim.
type ClaimStatus string

const (
	// StatusOpen marks a claim with no supporting evidence found yet.
	StatusOpen ClaimStatus = "OPEN"

	// StatusPotentiallyVerified marks a claim for which concrete supporting
	// evidence was found elsewhere in the document. The analyzer never
	// asserts a claim is fulfilled, only that evidence potentially supports it.
	StatusPotentiallyVerified ClaimStatus = "POTENTIALLY_VERIFIED"
)

// Claim is a strategic sustainability commitment extracted from a page.
type Claim struct {
	ID       int         `json:"id"`                 // Unique, monotonically assigned
	Text     string      `json:"text"`               // The commitment itself
	Context  string      `json:"context,omitempty"`  // Surrounding rationale, optional
	Page     int         `json:"page"`               // Origin page
	Status   ClaimStatus `json:"status"`             // OPEN or POTENTIALLY_VERIFIED
	Evidence string      `json:"evidence,omitempty"` // Why the status changed, names the evidence page and pass
}

// Registry is the ordered claim collection built up during the sequential
// pass and mutated (status only) by deep verification. It is owned by a
// single analysis run; the engines never share one registry concurrently.
type Registry struct {
	claims []*Claim
	byID   map[int]*Claim
	nextID int
}

// NewRegistry creates an empty registry. IDs start at 1.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[int]*Claim),
		nextID: 1,
	}
}

// Add appends a new claim in OPEN state and assigns the next sequential id.
// IDs are never reused or renumbered, so callers must validate claim text
// before adding: a discarded entry must not advance the counter.
func (r *Registry) Add(text, context string, page int) *Claim {
	c := &Claim{
		ID:      r.nextID,
		Text:    text,
		Context: context,
		Page:    page,
		Status:  StatusOpen,
	}
	r.claims = append(r.claims, c)
	r.byID[c.ID] = c
	r.nextID++
	return c
}

// Get returns the claim with the given id.
func (r *Registry) Get(id int) (*Claim, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Len returns the number of registered claims.
func (r *Registry) Len() int {
	return len(r.claims)
}

// All returns copies of every claim in first-appearance order.
func (r *Registry) All() []Claim {
	out := make([]Claim, len(r.claims))
	for i, c := range r.claims {
		out[i] = *c
	}
	return out
}

// Open returns copies of all claims still in OPEN state, in order.
func (r *Registry) Open() []Claim {
	var out []Claim
	for _, c := range r.claims {
		if c.Status == StatusOpen {
			out = append(out, *c)
		}
	}
	return out
}

// Verify promotes an OPEN claim to POTENTIALLY_VERIFIED and records the
// evidence description. The transition happens at most once: unknown ids
// and claims that are not OPEN are ignored. Returns whether the status
// changed.
func (r *Registry) Verify(id int, evidence string) bool {
	c, ok := r.byID[id]
	if !ok || c.Status != StatusOpen {
		return false
	}
	c.Status = StatusPotentiallyVerified
	c.Evidence = evidence
	return true
}

// MarshalJSON renders the registry as a plain ordered claim array.
func (r *Registry) MarshalJSON() ([]byte, error) {
	if r == nil || r.claims == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.claims)
}

// UnmarshalJSON restores a registry from a claim array, rebuilding the id
// index and the next-id counter.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var claims []*Claim
	if err := json.Unmarshal(data, &claims); err != nil {
		return err
	}
	r.claims = claims
	r.byID = make(map[int]*Claim, len(claims))
	r.nextID = 1
	for _, c := range claims {
		r.byID[c.ID] = c
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
	}
	return nil
}
