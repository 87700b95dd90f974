package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reference data records. CRUD for these lives outside this service;
// here they are read-only lookup targets for the search rollup.

type Vessel struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;index" json:"name"`
	IMO  string    `gorm:"column:imo;uniqueIndex" json:"imo,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Vessel) TableName() string { return "vessel" }

type Company struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;index" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Company) TableName() string { return "company" }

type Port struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name    string    `gorm:"column:name;not null;index" json:"name"`
	Country string    `gorm:"column:country" json:"country,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Port) TableName() string { return "port" }

type CargoType struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;index" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CargoType) TableName() string { return "cargo_type" }

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName string    `gorm:"column:first_name" json:"first_name,omitempty"`
	LastName  string    `gorm:"column:last_name" json:"last_name,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "desk_user" }

// DisplayName is the human-readable identifier used by the search
// rollup: Vessel name+IMO, Port name+country, otherwise the name.
func (v Vessel) DisplayName() string {
	if v.IMO == "" {
		return v.Name
	}
	return v.Name + " " + v.IMO
}

func (c Company) DisplayName() string { return c.Name }

func (c CargoType) DisplayName() string { return c.Name }

func (p Port) DisplayName() string {
	if p.Country == "" {
		return p.Name
	}
	return p.Name + " " + p.Country
}

func (u User) DisplayName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}
