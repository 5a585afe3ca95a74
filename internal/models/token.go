package models

import "time"

// APIToken is a credential for the carga query API. The secret is generated
// once and never regenerated in place; retiring a token deactivates it.
type APIToken struct {
	ID         int64      `json:"id"`
	Token      string     `json:"-"`
	Label      string     `json:"label"`
	Active     bool       `json:"active"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// APIRequestLog is one record per carga query API call, written for every
// branch the request can take.
type APIRequestLog struct {
	ID             int64     `json:"id"`
	SourceIP       string    `json:"sourceIp"`
	TokenID        *int64    `json:"tokenId,omitempty"`
	CargaNumber    string    `json:"cargaNumber"`
	ResponseStatus int       `json:"responseStatus"`
	DurationMs     int64     `json:"durationMs"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CargaResult is the query API response body.
type CargaResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
