package models

// Stats summarizes the current store state. The four status counts always
// sum to Total; an empty store reports all zeros.
type Stats struct {
	Total        int `json:"total"`
	Available    int `json:"available"`
	Claimed      int `json:"claimed"`
	Bought       int `json:"bought"`
	AlreadyHas   int `json:"already_has"`
	Participants int `json:"participants"`
	TotalAmount  int `json:"total_amount"`
}
