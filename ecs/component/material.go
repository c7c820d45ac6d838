package component

import "github.com/milk9111/townwalk/geom"

// Material is shared by pointer between entities using the same named
// material, so recolouring one recolours all of them.
type Material struct {
	Name            string
	Diffuse         geom.Color
	Specular        geom.Color
	Emissive        geom.Color
	Alpha           float64
	BackFaceCulling bool
}

// MaterialRef attaches a shared material to a mesh entity.
type MaterialRef struct {
	Material *Material
}

var MaterialComponent = NewComponent[MaterialRef]()

// Label draws Text centred on the entity, used for street names.
type Label struct {
	Text  string
	Color geom.Color
	Size  float64
}

var LabelComponent = NewComponent[Label]()
