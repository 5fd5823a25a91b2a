// Package model contains domain models passed between layers.
package model

// Job is the display-ready form of one CRM job record.
// Built once per request and never mutated afterwards.
type Job struct {
	ID            string   `json:"id"`
	JobNumber     string   `json:"jobNumber"`
	Contact       string   `json:"contact"`
	Service       string   `json:"service"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	City          string   `json:"city"`
	Date          string   `json:"date"`
	Amount        *float64 `json:"amount"`
	Cover         string   `json:"cover"`
	Photos        []string `json:"photos"`
	HeroImage     string   `json:"heroImage"`
	ShowOnWebsite bool     `json:"showOnWebsite"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}
