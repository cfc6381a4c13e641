package component

import "github.com/milk9111/pathkit/motion"

type TileMover struct {
	motion.TileStepper
}

var TileMoverComponent = NewComponent[TileMover]()
