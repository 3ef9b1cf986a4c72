package models

// MaterialKind tags how a piece of coursework content is stored.
type MaterialKind string

const (
	// MaterialText stores the content inline in the row.
	MaterialText MaterialKind = "text"
	// MaterialDocument stores the content as a blob referenced by storage key.
	MaterialDocument MaterialKind = "document"
)

// Material is the content of an assignment, exam or note. Exactly one of
// Body and StorageKey is populated depending on Kind.
type Material struct {
	Kind       MaterialKind `gorm:"size:16;not null" json:"kind"`
	Body       string       `gorm:"type:text" json:"body,omitempty"`
	StorageKey string       `gorm:"size:512" json:"storage_key,omitempty"`
}

// TextMaterial builds an inline-text material.
func TextMaterial(body string) Material {
	return Material{Kind: MaterialText, Body: body}
}

// DocumentMaterial builds a stored-document material referencing a blob key.
func DocumentMaterial(key string) Material {
	return Material{Kind: MaterialDocument, StorageKey: key}
}

// IsDocument reports whether the material references a stored blob.
func (m Material) IsDocument() bool {
	return m.Kind == MaterialDocument
}
