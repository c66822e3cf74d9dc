package model

// ArtifactKind identifies the encoding of a rendered artifact.
type ArtifactKind string

const (
	ArtifactPNG ArtifactKind = "png"
	ArtifactPDF ArtifactKind = "pdf"
)

// ChartArtifact is a rendered chart image or document. It is produced per
// request and never cached.
type ChartArtifact struct {
	Kind     ArtifactKind
	Data     []byte
	Symbols  []string
	Days     int
	Filename string
	Caption  string
}
