package packer

// Demand describes one part type to cut: an effective length (raw length
// plus the saw cut width) and how many pieces are required.
type Demand struct {
	Length   float64
	Quantity int
}

// Part is a single piece expanded from a Demand. DemandIndex records the
// originating demand so identical lengths from different demands stay
// distinguishable in summaries.
type Part struct {
	Length      float64
	DemandIndex int
}

// Rod is one stock rod together with the parts placed on it. ID is the
// 1-based creation order. Leftover is the stock length minus UsedLength and
// goes negative only when a single part exceeds the stock length.
type Rod struct {
	ID         int
	UsedLength float64
	Leftover   float64
	Parts      []Part
}

// PartGroup aggregates identical parts on a rod for display, keyed by the
// originating demand and its effective length.
type PartGroup struct {
	DemandIndex int
	Length      float64
	Count       int
}

// Packer describes the behaviour required from a cutting-stock packer.
type Packer interface {
	Pack(stockLength float64, demands []Demand) []Rod
}
