package integrity

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service runs the registered integrity checks.
type Service struct {
	checks []Check
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(logger *zap.Logger, checks ...Check) *Service {
	return &Service{checks: checks, logger: logger}
}

// RunAll runs every check and reports the worst status seen.
func (s *Service) RunAll(ctx context.Context) ([]Result, Status) {
	results := make([]Result, 0, len(s.checks))
	worst := StatusOK
	for _, check := range s.checks {
		res := check.Run(ctx)
		results = append(results, res)

		if res.Status != StatusOK {
			s.logger.Warn("Integrity check not clean",
				zap.String("check", res.Name),
				zap.String("status", string(res.Status)),
				zap.String("detail", res.Detail),
			)
		}
		if res.Status == StatusFail || (res.Status == StatusWarn && worst == StatusOK) {
			worst = res.Status
		}
	}
	return results, worst
}

// Run runs one check by name.
func (s *Service) Run(ctx context.Context, name string) (Result, error) {
	check, err := s.find(name)
	if err != nil {
		return Result{}, err
	}
	return check.Run(ctx), nil
}

// Fix repairs what a check detects, for checks that support it.
func (s *Service) Fix(ctx context.Context, name string) error {
	check, err := s.find(name)
	if err != nil {
		return err
	}
	fixer, ok := check.(Fixer)
	if !ok {
		return fmt.Errorf("check %q cannot be fixed automatically", name)
	}
	if err := fixer.Fix(ctx); err != nil {
		return err
	}

	s.logger.Info("Integrity check fixed", zap.String("check", name))
	return nil
}

func (s *Service) find(name string) (Check, error) {
	for _, check := range s.checks {
		if check.Name() == name {
			return check, nil
		}
	}
	return nil, fmt.Errorf("unknown check %q", name)
}
