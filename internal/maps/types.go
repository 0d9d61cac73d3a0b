package maps

// LookupRequest represents the query parameters from the frontend.
type LookupRequest struct {
	Query string `form:"q" binding:"required,min=3"`
}

// AddressSuggestion is the normalized data returned to the frontend form.
type AddressSuggestion struct {
	Label  string `json:"label"`
	Street string `json:"street"`
	Number string `json:"number"`
	City   string `json:"city"`
	State  string `json:"state"`
	Lat    string `json:"lat"`
	Lon    string `json:"lon"`
}

type nominatimAddress struct {
	Road         string `json:"road"`
	HouseNumber  string `json:"house_number"`
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Municipality string `json:"municipality"`
	Hamlet       string `json:"hamlet"`
	State        string `json:"state"`
}

// nominatimResponse mirrors the relevant parts of the OSM search payload.
type nominatimResponse struct {
	DisplayName string           `json:"display_name"`
	Lat         string           `json:"lat"`
	Lon         string           `json:"lon"`
	Address     nominatimAddress `json:"address"`
}
