package service

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const userAgent = "weather-now/1.0"

// NewRestClient builds the resty client shared by the Open-Meteo and ip-api
// clients. A nil httpClient uses resty's default transport.
func NewRestClient(baseURL string, timeout time.Duration, httpClient *http.Client) *resty.Client {
	var client *resty.Client
	if httpClient != nil {
		client = resty.NewWithClient(httpClient)
	} else {
		client = resty.New()
	}

	client.
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}
