package domain

import (
	"time"

	"github.com/google/uuid"
)

// Property is a rentable unit identified by its natural property code.
type Property struct {
	PropertyCode string    `json:"property_code" validate:"required"`
	Name         string    `json:"name"`
	GroupCode    *string   `json:"group_code"`
	Address      string    `json:"address,omitempty"`
	TimeZone     string    `json:"timezone,omitempty"`
	RoomCount    int       `json:"room_count" validate:"gte=0"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PropertyInput is the full representation used to create or replace a property.
type PropertyInput struct {
	PropertyCode string  `json:"property_code,omitempty"`
	Name         string  `json:"name"`
	GroupCode    *string `json:"group_code,omitempty"`
	Address      string  `json:"address,omitempty"`
	TimeZone     string  `json:"timezone,omitempty"`
	RoomCount    int     `json:"room_count"`
	Active       bool    `json:"active"`
}

// PropertyUpdate is a partial update; nil fields are left untouched.
type PropertyUpdate struct {
	Name      *string `json:"name,omitempty"`
	Address   *string `json:"address,omitempty"`
	RoomCount *int    `json:"room_count,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// PropertyGroup is a named collection of properties.
type PropertyGroup struct {
	GroupCode     string    `json:"group_code" validate:"required"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	PropertyCodes []string  `json:"property_codes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PropertyGroupInput creates or replaces a property group.
type PropertyGroupInput struct {
	GroupCode   string `json:"group_code,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// OTAMapping links a property to its listing on an online travel agency.
type OTAMapping struct {
	ID           uuid.UUID `json:"id" validate:"required"`
	PropertyCode string    `json:"property_code" validate:"required"`
	OTA          string    `json:"ota" validate:"required"`
	ExternalID   string    `json:"external_id"`
	ListingURL   string    `json:"listing_url,omitempty" validate:"omitempty,url"`
	CreatedAt    time.Time `json:"created_at"`
}

// OTAMappingInput creates an OTA mapping.
type OTAMappingInput struct {
	OTA        string `json:"ota"`
	ExternalID string `json:"external_id"`
	ListingURL string `json:"listing_url,omitempty"`
}
