package component

// SaveRequest and LoadRequest live on short-lived request entities that the
// persistence system destroys after handling.
type SaveRequest struct {
	Slot string
}

var SaveRequestComponent = NewComponent[SaveRequest]()

type LoadRequest struct {
	Slot string
}

var LoadRequestComponent = NewComponent[LoadRequest]()
