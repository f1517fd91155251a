package models

import (
	"time"
)

type User struct {
	UserID       string    `json:"id" db:"user_id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Avatar       string    `json:"avatar" db:"avatar"`
	Posts        int       `json:"posts" db:"posts"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type Post struct {
	PostID      string    `json:"id" db:"post_id"`
	Title       string    `json:"title" db:"title"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	CreatorID   string    `json:"creator" db:"creator_id"`
	Thumbnail   string    `json:"thumbnail" db:"thumbnail"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Identity is the caller attached to a request by the auth guard.
type Identity struct {
	ID   string
	Name string
}

const (
	CategoryAgriculture   = "Agriculture"
	CategoryBusiness      = "Business"
	CategoryEducation     = "Education"
	CategoryEntertainment = "Entertainment"
	CategoryArt           = "Art"
	CategoryInvestment    = "Investment"
	CategoryUncategorized = "Uncategorized"
	CategoryWeather       = "Weather"
)

var Categories = []string{
	CategoryAgriculture,
	CategoryBusiness,
	CategoryEducation,
	CategoryEntertainment,
	CategoryArt,
	CategoryInvestment,
	CategoryUncategorized,
	CategoryWeather,
}
