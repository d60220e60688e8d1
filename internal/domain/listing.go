package domain

// Host is the denormalized identity of the user offering a listing.
type Host struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type Listing struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Price        int    `json:"price"`
	Zipcode      string `json:"zipcode"`
	Capacity     int    `json:"capacity"`
	PhotoURL     string `json:"photoUrl"`
	Amenities    string `json:"amenities"`
	HostUsername string `json:"-"`
	Host         *Host  `json:"host,omitempty"`
}

// ListingSummary is the compact form returned when browsing all listings.
type ListingSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Price    int    `json:"price"`
	Zipcode  string `json:"zipcode"`
	Capacity int    `json:"capacity"`
	PhotoURL string `json:"photoUrl"`
}
