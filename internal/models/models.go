package models

import (
	"time"
)

type Product struct {
	ID          string     `gorm:"primaryKey"  json:"id"`
	Name        string     `gorm:"not null"    json:"name"`
	About       string     `gorm:"not null"    json:"about"`
	Price       float64    `gorm:"not null"    json:"price"`
	CategoryIDs StringList `gorm:"type:text"   json:"categoryIds,omitempty"`
	// Categories is filled by the document backend when it expands
	// CategoryIDs; the relational backend leaves it empty.
	Categories []Category `gorm:"-" json:"categories,omitempty"`
}

type User struct {
	ID           string `gorm:"primaryKey"       json:"id"`
	Username     string `gorm:"unique;not null"  json:"username"`
	PasswordHash string `gorm:"not null"         json:"-"`
	Email        string `gorm:"not null"         json:"email"`
}

type Order struct {
	ID         string     `gorm:"primaryKey"      json:"id"`
	UserID     string     `gorm:"index;not null"  json:"userId"`
	ProductIDs StringList `gorm:"type:text"       json:"productIds"`
	Total      float64    `gorm:"not null"        json:"total"`
	Payment    bool       `gorm:"default:false"   json:"payment"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type Category struct {
	ID   string `gorm:"primaryKey"  json:"id"`
	Name string `gorm:"not null"    json:"name"`
}
