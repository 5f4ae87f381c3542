package dto

type BranchResponse struct {
	LocationID   string             `json:"locationId"`
	Name         string             `json:"name"`
	Coordinate   *CoordinatePayload `json:"coordinate"`
	Capabilities []string           `json:"capabilities"`
}

type ListBranchesResponse struct {
	Branches []BranchResponse `json:"branches"`
}
