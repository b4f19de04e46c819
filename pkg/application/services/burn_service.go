package services

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/firemarshal/pkg/application/dto"
	"github.com/vsinha/firemarshal/pkg/domain/entities"
	"github.com/vsinha/firemarshal/pkg/domain/services"
	"github.com/vsinha/firemarshal/pkg/infrastructure/advisories"
	"github.com/vsinha/firemarshal/pkg/infrastructure/events"
	"github.com/vsinha/firemarshal/pkg/infrastructure/logging"
)

// ServiceConfig holds the collaborators of a BurnService. All fields are optional.
type ServiceConfig struct {
	// Advisories evaluates rule packs against each result
	Advisories *advisories.Evaluator
	// Journal records every evaluation and rejection
	Journal events.EventStore
	Logger  *logging.Logger
}

// BurnService evaluates burn requests and decorates the result with warnings and advisories.
// It holds no per-request state and is safe for concurrent use.
type BurnService struct {
	config ServiceConfig
}

// NewBurnService creates a burn service with no advisories and no journal
func NewBurnService() *BurnService {
	return NewBurnServiceWithConfig(ServiceConfig{})
}

// NewBurnServiceWithConfig creates a burn service with custom collaborators
func NewBurnServiceWithConfig(config ServiceConfig) *BurnService {
	return &BurnService{config: config}
}

// Evaluate runs the burn model for req and builds a report
func (s *BurnService) Evaluate(ctx context.Context, req entities.BurnRequest) (*dto.BurnReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := services.Evaluate(req)
	if err != nil {
		s.config.Logger.Debugf("burn rejected: %v", err)
		s.record(events.BurnRejectedEvent, events.BurnRejected{Request: req, Reason: err.Error()})
		return nil, fmt.Errorf("burn evaluation failed: %w", err)
	}

	report := &dto.BurnReport{
		Request:    req,
		Result:     *result,
		Warnings:   []string{},
		Advisories: []advisories.Advisory{},
	}

	if result.InsufficientFuel() {
		report.Warnings = append(report.Warnings, dto.InsufficientFuelWarning)
		s.config.Logger.Warnf("burn needs %.3f Mg more fuel than available", -result.FuelFinal)
	}

	if s.config.Advisories != nil {
		fired, err := s.config.Advisories.Evaluate(ctx, *result)
		if err != nil {
			return nil, fmt.Errorf("advisory evaluation failed: %w", err)
		}
		report.Advisories = append(report.Advisories, fired...)
		report.RulesVersion = s.config.Advisories.Version()
	}

	report.EvaluatedIn = time.Since(start)
	s.config.Logger.Debugf("burn evaluated in %v: %.2f s, %.3f Mg expended", report.EvaluatedIn, result.BurnTime, result.FuelExpended)

	s.record(events.BurnEvaluatedEvent, events.BurnEvaluated{
		Request:          req,
		Result:           *result,
		InsufficientFuel: result.InsufficientFuel(),
	})

	return report, nil
}

func (s *BurnService) record(eventType string, data interface{}) {
	if s.config.Journal == nil {
		return
	}
	if err := s.config.Journal.AppendEvent(events.BurnStream, events.NewEvent(eventType, events.BurnStream, data)); err != nil {
		s.config.Logger.Warnf("failed to record %s: %v", eventType, err)
	}
}
