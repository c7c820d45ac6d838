package ecs

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World)

func (f SystemFunc) Update(w *World) {
	f(w)
}
