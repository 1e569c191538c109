package mesh

// NormalMaterial colors each fragment by its view-space normal.
type NormalMaterial struct {
	Wireframe bool
}

// NewNormalMaterial returns the default solid material.
func NewNormalMaterial() *NormalMaterial {
	return &NormalMaterial{}
}
