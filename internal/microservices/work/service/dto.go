package service

import (
	"labourline/internal/domain"
	"labourline/internal/pricing"
)

type CreateWorkRequest struct {
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Category       string        `json:"category"`
	Pricing        pricing.Input `json:"pricing"`
	BiddingAllowed bool          `json:"bidding_allowed"`
	Latitude       *float64      `json:"latitude,omitempty"`
	Longitude      *float64      `json:"longitude,omitempty"`
	Address        string        `json:"address,omitempty"`
	ImageURL       string        `json:"image_url,omitempty"`
	AudioURL       string        `json:"audio_url,omitempty"`
}

// OpenWorkFilter narrows the open-work listing. Distance filtering needs
// the caller's coordinates; items without coordinates are excluded from
// distance-filtered results rather than included by default.
type OpenWorkFilter struct {
	Category      string
	CallerLat     *float64
	CallerLon     *float64
	MaxDistanceKm *float64
}

// OpenWorkItem is a work item annotated with the distance from the caller,
// when it could be computed.
type OpenWorkItem struct {
	domain.Work
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

type SubmitBidRequest struct {
	Amount  int64  `json:"amount"`
	Comment string `json:"comment,omitempty"`
}
