package model

// KeyField identifies one of the two credential fields.
type KeyField string

const (
	// KeyCohere is the Cohere API key field.
	KeyCohere KeyField = "cohere"
	// KeyTavily is the Tavily API key field.
	KeyTavily KeyField = "tavily"
)

// KeyFields lists the credential fields in display order.
var KeyFields = []KeyField{KeyCohere, KeyTavily}

// StoredKeys is the credential pair cached for the lifetime of a session.
// Nil means the value was never stored; it serializes as JSON null.
type StoredKeys struct {
	Cohere *string `json:"cohere"`
	Tavily *string `json:"tavily"`
}

// NewStoredKeys returns a StoredKeys holding both values.
func NewStoredKeys(cohere, tavily string) StoredKeys {
	return StoredKeys{Cohere: &cohere, Tavily: &tavily}
}

// Get returns the stored value for field, or "" when unset.
func (k StoredKeys) Get(field KeyField) string {
	var v *string
	switch field {
	case KeyCohere:
		v = k.Cohere
	case KeyTavily:
		v = k.Tavily
	}
	if v == nil {
		return ""
	}
	return *v
}

// VisibilityState tracks whether each credential field shows plaintext.
// The zero value has both fields masked.
type VisibilityState struct {
	Cohere bool `json:"cohere"`
	Tavily bool `json:"tavily"`
}

// Visible reports whether field currently shows plaintext.
func (v VisibilityState) Visible(field KeyField) bool {
	switch field {
	case KeyCohere:
		return v.Cohere
	case KeyTavily:
		return v.Tavily
	}
	return false
}

// Toggle returns a copy of v with field flipped.
func (v VisibilityState) Toggle(field KeyField) VisibilityState {
	switch field {
	case KeyCohere:
		v.Cohere = !v.Cohere
	case KeyTavily:
		v.Tavily = !v.Tavily
	}
	return v
}
