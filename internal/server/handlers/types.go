package handlers

import (
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/server/utils"
	"github.com/PRUTHVI-VANKA/Weather-Now/internal/service"
)

// LocationRequest selects a location for the dashboard. Coordinates are
// pointers so that 0 is a valid value.
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Name      string   `json:"name" validate:"max=200"`
	Country   string   `json:"country" validate:"max=200"`
}

// ForecastRequest is the query of a direct forecast lookup.
type ForecastRequest struct {
	Lat     *float64 `form:"lat" validate:"required,latitude"`
	Lon     *float64 `form:"lon" validate:"required,longitude"`
	Name    string   `form:"name" validate:"max=200"`
	Country string   `form:"country" validate:"max=200"`
}

type GeocodeRequest struct {
	Query string `form:"q" validate:"required,max=200"`
}

type SearchQueryRequest struct {
	Query string `json:"query" validate:"max=200"`
}

type SelectRequest struct {
	ID *int64 `json:"id" validate:"required"`
}

type GeocodeResponse struct {
	Results []service.LocationCandidate `json:"results"`
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Code    string                  `json:"code,omitempty"`
	Details string                  `json:"details,omitempty"`
	Fields  []utils.ValidationError `json:"fields,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
}
