package renderer

// Renderer produces an embeddable visual artifact for a tracking link. The
// artifact's contents are opaque to the rest of the engine.
type Renderer interface {
	Render(link string, style string) (*Artifact, error)
}

// Artifact is a rendered campaign asset ready to embed
type Artifact struct {
	// ContentType of the raw bytes, e.g. image/png
	ContentType string
	// Data is the raw artifact
	Data []byte
	// DataURL is the artifact encoded for direct embedding in markup
	DataURL string
}
