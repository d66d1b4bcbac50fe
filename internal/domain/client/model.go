package client

import "time"

// Client is a gym member. Email is unique across clients.
type Client struct {
	ID           uint      `gorm:"primaryKey"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	BirthDate    time.Time `gorm:"type:date;not null"`
	RegisteredAt time.Time `gorm:"not null"`
	Phone        string    `gorm:"not null;index"`
	Email        string    `gorm:"not null;uniqueIndex"`
}

func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

type Credentials struct {
	Phone string
	Email string
}
