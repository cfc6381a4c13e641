package component

import "github.com/milk9111/pathkit/motion"

// Chain drags segment entities built from BodyPrefab behind the entity.
// The chain system owns the segments; everything else asks for changes
// through the request fields.
type Chain struct {
	motion.Chain
	BodyPrefab string

	BuildRequested   bool
	DestroyRequested bool
	AddRequested     int

	// Live is the number of segments alive after the last update.
	Live int
}

var ChainComponent = NewComponent[Chain]()

// ChainSegment marks a body segment. Index 0 is right behind the head.
type ChainSegment struct {
	Index int
}

var ChainSegmentComponent = NewComponent[ChainSegment]()
