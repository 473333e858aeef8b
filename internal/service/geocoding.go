package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/PRUTHVI-VANKA/Weather-Now/internal/config"
	"github.com/PRUTHVI-VANKA/Weather-Now/pkg/telemetry"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GeocodingService searches the Open-Meteo geocoding API.
type GeocodingService struct {
	client         *resty.Client
	count          int
	language       string
	minQueryLength int
	policy         ErrorPolicy
	logger         *zap.Logger
	tele           *telemetry.Telemetry
	recorder       CallRecorder
}

type geocodingResponse struct {
	Results []LocationCandidate `json:"results"`
}

func NewGeocodingServiceWithConfig(cfg config.GeocodingConfig, logger *zap.Logger, tele *telemetry.Telemetry) (*GeocodingService, error) {
	policy, err := ParseErrorPolicy(cfg.ErrorPolicy)
	if err != nil {
		return nil, fmt.Errorf("geocoding: %w", err)
	}

	return &GeocodingService{
		client:         NewRestClient(cfg.BaseURL, cfg.Timeout, nil),
		count:          cfg.Count,
		language:       cfg.Language,
		minQueryLength: cfg.MinQueryLength,
		policy:         policy,
		logger:         logger.With(zap.String("service", "open-meteo-geocoding")),
		tele:           tele,
	}, nil
}

func (s *GeocodingService) Name() string {
	return "open-meteo-geocoding"
}

func (s *GeocodingService) Policy() ErrorPolicy {
	return s.policy
}

func (s *GeocodingService) SetCallRecorder(recorder CallRecorder) {
	s.recorder = recorder
}

// Search returns at most count candidates in provider order. Queries shorter
// than the minimum length return no candidates without a request. Provider
// failures follow the service's ErrorPolicy.
func (s *GeocodingService) Search(ctx context.Context, query string) ([]LocationCandidate, error) {
	if utf8.RuneCountInString(query) < s.minQueryLength {
		return []LocationCandidate{}, nil
	}

	ctx, span := s.tele.GetTracer().Start(ctx, "open-meteo.Search")
	defer span.End()

	span.SetAttributes(
		attribute.String("query", query),
		attribute.String("policy", s.policy.String()),
	)

	results, err := s.search(ctx, query)
	if s.recorder != nil {
		s.recorder.RecordWeatherServiceCall(ctx, s.Name(), err == nil)
	}
	if err != nil {
		span.SetAttributes(attribute.Bool("success", false))
		s.tele.RecordError(ctx, err)

		if s.policy == PolicyDegrade {
			s.logger.Warn("Geocoding search failed, returning no results",
				zap.String("query", query),
				zap.Error(err))
			return []LocationCandidate{}, nil
		}

		s.logger.Error("Geocoding search failed",
			zap.String("query", query),
			zap.Error(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("results", len(results)),
	)

	s.logger.Debug("Geocoding search completed",
		zap.String("query", query),
		zap.Int("results", len(results)))

	return results, nil
}

func (s *GeocodingService) search(ctx context.Context, query string) ([]LocationCandidate, error) {
	req := s.client.R().
		SetContext(ctx).
		SetQueryParam("name", query).
		SetQueryParam("count", strconv.Itoa(s.count)).
		SetQueryParam("format", "json")
	if s.language != "" {
		req.SetQueryParam("language", s.language)
	}

	resp, err := req.Get("/search")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	if !resp.IsSuccess() {
		return nil, &StatusError{Service: s.Name(), Code: resp.StatusCode()}
	}

	var payload geocodingResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if payload.Results == nil {
		return []LocationCandidate{}, nil
	}
	if len(payload.Results) > s.count {
		payload.Results = payload.Results[:s.count]
	}

	return payload.Results, nil
}
