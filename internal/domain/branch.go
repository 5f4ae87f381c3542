package domain

// A fulfillment location as registered in the branch directory.
type Branch struct {
	LocationID   string
	Name         string
	Coordinates  *Coordinates // nil when the location has not been geocoded
	Capabilities []string     // processing operations, e.g. "saw cut", "shear"
}

// Point-in-time stock of one division at one branch.
type InventorySnapshot struct {
	OnHandQty    float64
	OnHandWeight float64
}

// BranchFacts is the snapshot ranking consumes for one candidate.
// Facts are supplied by external collaborators and never mutated here.
type BranchFacts struct {
	Branch
	PerDivisionInventory map[Division]InventorySnapshot
}

// InventoryFor returns the division's snapshot, zero when unknown.
func (f BranchFacts) InventoryFor(d Division) InventorySnapshot {
	return f.PerDivisionInventory[d]
}
