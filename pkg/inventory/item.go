package inventory

import (
	"time"

	"github.com/matzehuels/labelsheet/pkg/sheet"
)

// Item statuses used by the inventory API.
const (
	StatusActive = "Active"
	StatusBroken = "Broken"
)

// Location is where an item is kept.
type Location struct {
	Faculty string `json:"faculty" bson:"faculty"`
	Room    string `json:"room" bson:"room"`
}

// String returns "faculty - room".
func (l Location) String() string {
	switch {
	case l.Faculty == "":
		return l.Room
	case l.Room == "":
		return l.Faculty
	}
	return l.Faculty + " - " + l.Room
}

// Item is an inventory item as returned by the API.
type Item struct {
	ID           string         `json:"_id" bson:"_id"`
	SerialNumber string         `json:"serialNumber" bson:"serialNumber"`
	Category     string         `json:"category" bson:"category"`
	SubCategory  string         `json:"subCategory" bson:"subCategory"`
	Status       string         `json:"status,omitempty" bson:"status,omitempty"`
	Department   string         `json:"department,omitempty" bson:"department,omitempty"`
	Location     Location       `json:"location" bson:"location"`
	Count        int            `json:"count,omitempty" bson:"count,omitempty"`
	TypeDetails  map[string]any `json:"typeDetails,omitempty" bson:"typeDetails,omitempty"`
	CreatedAt    time.Time      `json:"createdAt" bson:"createdAt"`
}

// Record projects the item onto the fields printed on a label.
func (it Item) Record() sheet.Record {
	return sheet.Record{
		SerialNumber: it.SerialNumber,
		Category:     it.Category,
		SubCategory:  it.SubCategory,
	}
}

// Records projects items in order.
func Records(items []Item) []sheet.Record {
	out := make([]sheet.Record, len(items))
	for i, it := range items {
		out[i] = it.Record()
	}
	return out
}

// User is the account a session token belongs to.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role,omitempty"`
	Faculty  string `json:"faculty,omitempty"`
}

// LoginResponse is the body returned by POST /api/auth/login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// BatchRequest creates Count items that share a category and location.
type BatchRequest struct {
	Count       int            `json:"count"`
	Category    string         `json:"category"`
	SubCategory string         `json:"subCategory"`
	Faculty     string         `json:"faculty"`
	Room        string         `json:"room"`
	Department  string         `json:"department,omitempty"`
	TypeDetails map[string]any `json:"typeDetails,omitempty"`
}

// DefaultFaculty is used when neither the request nor the user names one.
const DefaultFaculty = "General"

// MaxBatchCount bounds a single batch request.
const MaxBatchCount = 1000
