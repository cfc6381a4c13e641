package component

// Persistent marks an entity whose movement state is written to save slots.
// ID must be unique per level.
type Persistent struct {
	ID string
}

var PersistentComponent = NewComponent[Persistent]()
