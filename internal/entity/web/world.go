package web

import "time"

type WorldTheme struct {
	Color string `json:"color"`
	Mode  string `json:"mode"`
}

type WorldFeatures struct {
	Chat         bool `json:"chat"`
	Voice        bool `json:"voice"`
	Video        bool `json:"video"`
	NFT          bool `json:"nft"`
	Crypto       bool `json:"crypto"`
	Events       bool `json:"events"`
	Translations bool `json:"translations"`
	Social       bool `json:"social"`
}

type WorldPricing struct {
	Free    bool    `json:"free"`
	Premium bool    `json:"premium"`
	Price   float64 `json:"price"`
}

type World struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Slug        string        `json:"slug"`
	Domain      string        `json:"domain"`
	Theme       WorldTheme    `json:"theme"`
	Features    WorldFeatures `json:"features"`
	Pricing     WorldPricing  `json:"pricing"`
	Public      bool          `json:"public"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type WorldInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Slug        string        `json:"slug"`
	Domain      string        `json:"domain"`
	Theme       WorldTheme    `json:"theme"`
	Features    WorldFeatures `json:"features"`
	Pricing     WorldPricing  `json:"pricing"`
	Public      bool          `json:"public"`
}

// WorldPatch carries only the fields to change. A nil field is left untouched.
type WorldPatch struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Slug        *string        `json:"slug,omitempty"`
	Domain      *string        `json:"domain,omitempty"`
	Theme       *WorldTheme    `json:"theme,omitempty"`
	Features    *WorldFeatures `json:"features,omitempty"`
	Pricing     *WorldPricing  `json:"pricing,omitempty"`
	Public      *bool          `json:"public,omitempty"`
}

func (p WorldPatch) ApplyTo(w *World) {
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.Description != nil {
		w.Description = *p.Description
	}
	if p.Slug != nil {
		w.Slug = *p.Slug
	}
	if p.Domain != nil {
		w.Domain = *p.Domain
	}
	if p.Theme != nil {
		w.Theme = *p.Theme
	}
	if p.Features != nil {
		w.Features = *p.Features
	}
	if p.Pricing != nil {
		w.Pricing = *p.Pricing
	}
	if p.Public != nil {
		w.Public = *p.Public
	}
}

type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// WorldChange is pushed to subscribers of a world's change feed.
type WorldChange struct {
	Type  ChangeType `json:"type"`
	World World      `json:"world"`
}
