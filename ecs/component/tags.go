package component

// Solid meshes block avatar movement.
type Solid struct{}

var SolidComponent = NewComponent[Solid]()

// Pickable entities react to clicks. Group ties merged parts together.
type Pickable struct {
	Group string
}

var PickableComponent = NewComponent[Pickable]()

// AvatarTag marks the avatar root.
type AvatarTag struct{}

var AvatarTagComponent = NewComponent[AvatarTag]()
