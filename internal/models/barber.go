package models

import "time"

// Location is where a barber receives home-visit requests from.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Availability maps a weekday short name (Sun..Sat) to the bookable
// start times offered every week on that day.
type Availability map[string][]string

func (a Availability) Clone() Availability {
	if a == nil {
		return nil
	}
	out := make(Availability, len(a))
	for day, slots := range a {
		out[day] = append([]string(nil), slots...)
	}
	return out
}

// Barber is the provider profile of a user with role barber. ID equals the
// owning user's ID.
type Barber struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Email  string `gorm:"size:100;not null" json:"email"`
	Phone  string `gorm:"size:20" json:"phone,omitempty"`
	Role   string `gorm:"size:20;not null;default:'barber'" json:"role"`
	Avatar string `gorm:"size:512" json:"avatar,omitempty"`

	Services   []string `gorm:"serializer:json" json:"services"`
	Rating     float64  `json:"rating"`
	Reviews    int      `json:"reviews"`
	Experience int      `json:"experience"`
	Bio        string   `gorm:"type:text" json:"bio"`
	Price      float64  `json:"price"`

	Location     *Location    `gorm:"serializer:json" json:"location,omitempty"`
	Availability Availability `gorm:"serializer:json" json:"availability"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Offers reports whether tag is one of the barber's capability tags.
func (b Barber) Offers(tag string) bool {
	for _, s := range b.Services {
		if s == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share slices or maps with a
// store snapshot.
func (b Barber) Clone() Barber {
	out := b
	out.Services = append([]string(nil), b.Services...)
	if b.Location != nil {
		loc := *b.Location
		out.Location = &loc
	}
	out.Availability = b.Availability.Clone()
	return out
}
