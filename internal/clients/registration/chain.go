// Package registration submits membership applications through an ordered
// chain of transports.
package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/andolan/internal/common"
	"github.com/bobmcallan/andolan/internal/interfaces"
	"github.com/bobmcallan/andolan/internal/models"
)

// ErrNoStrategies is returned by a chain with nothing to try.
var ErrNoStrategies = errors.New("no registration strategies configured")

// Strategy is one way of submitting an application.
type Strategy interface {
	Name() string
	Register(ctx context.Context, app *models.MemberApplication) (*models.RegistrationResult, error)
}

// Compile-time interface check
var _ interfaces.MemberRegistrar = (*Chain)(nil)

// Chain tries each strategy in order and returns the first success.
type Chain struct {
	strategies []Strategy
	logger     *common.Logger
}

// NewChain creates a chain over strategies.
func NewChain(logger *common.Logger, strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, logger: logger}
}

// NewChainFromConfig builds the HTTP strategies for each configured endpoint
// and appends the mock strategy when the config allows it.
func NewChainFromConfig(config *common.Config, logger *common.Logger) *Chain {
	var strategies []Strategy
	for _, endpoint := range config.Registration.Endpoints {
		endpoint = strings.TrimSpace(endpoint)
		if endpoint == "" {
			continue
		}
		strategies = append(strategies, NewHTTPStrategy(endpoint, WithTimeout(config.Registration.GetTimeout())))
	}
	if config.MockRegistrationEnabled() {
		strategies = append(strategies, NewMockStrategy())
	}
	return NewChain(logger, strategies...)
}

// Strategies returns the strategy names in order.
func (c *Chain) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Register validates app and submits it. Transport failures and 5xx
// responses move on to the next strategy; a 4xx rejection is final. Every
// failed strategy is logged; when all fail the joined errors are returned.
func (c *Chain) Register(ctx context.Context, app *models.MemberApplication) (*models.RegistrationResult, error) {
	if err := Validate(app); err != nil {
		return nil, err
	}
	if len(c.strategies) == 0 {
		return nil, ErrNoStrategies
	}

	var errs []error
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := s.Register(ctx, app)
		if err == nil {
			result.Strategy = s.Name()
			c.logger.Info().
				Str("strategy", s.Name()).
				Str("membership", app.MembershipType).
				Msg("Member registration submitted")
			return result, nil
		}
		if isRejection(err) {
			c.logger.Warn().Err(err).Str("strategy", s.Name()).Msg("Registration rejected")
			return nil, fmt.Errorf("%s: %w", s.Name(), err)
		}
		c.logger.Warn().Err(err).Str("strategy", s.Name()).Msg("Registration strategy failed")
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	return nil, errors.Join(errs...)
}

// isRejection reports whether err is a 4xx answer from a registration server.
func isRejection(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode >= 400 && statusErr.StatusCode < 500
}

// Validate fills defaults and checks the required fields of app.
func Validate(app *models.MemberApplication) error {
	if app.MembershipType == "" {
		app.MembershipType = models.MembershipGeneral
	}
	if app.MembershipType != models.MembershipGeneral && app.MembershipType != models.MembershipYouth {
		return fmt.Errorf("%w: unknown membership type %q", interfaces.ErrInvalidInput, app.MembershipType)
	}
	if len(app.DocumentPhoto) > 0 && app.DocumentType == "" {
		app.DocumentType = models.DocumentOther
	}
	if app.DocumentType != "" && !validDocumentType(app.DocumentType) {
		return fmt.Errorf("%w: unknown document type %q", interfaces.ErrInvalidInput, app.DocumentType)
	}

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", app.Name},
		{"village", app.Village},
		{"city", app.City},
		{"phoneNumber", app.PhoneNumber},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", interfaces.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return nil
}

func validDocumentType(t string) bool {
	switch t {
	case models.DocumentAadhaar, models.DocumentPAN, models.DocumentRationCard, models.DocumentOther, models.DocumentNone:
		return true
	}
	return false
}
