package identity

import (
	"strings"

	"github.com/fuelsync/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Default plan limits applied when a plan is created without explicit limits
const (
	DefaultMaxStations        = 5
	DefaultMaxPumpsPerStation = 10
	DefaultMaxNozzlesPerPump  = 4
)

// Plan is a subscription plan. Its limits cap the station hierarchy of every
// tenant subscribed to it.
type Plan struct {
	shared.BaseEntity
	Name               string
	MaxStations        int
	MaxPumpsPerStation int
	MaxNozzlesPerPump  int
	PriceMonthly       decimal.Decimal
	PriceYearly        decimal.Decimal
	Features           []string
}

// PlanLimits carries optional limit values; zero means "use the default"
type PlanLimits struct {
	MaxStations        int
	MaxPumpsPerStation int
	MaxNozzlesPerPump  int
}

// NewPlan creates a plan, filling unset limits with defaults
func NewPlan(name string, limits PlanLimits, monthly, yearly decimal.Decimal, features []string) (*Plan, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Plan name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Plan name cannot exceed 100 characters")
	}
	if monthly.IsNegative() || yearly.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Plan price cannot be negative")
	}

	p := &Plan{
		BaseEntity:         shared.NewBaseEntity(),
		Name:               name,
		MaxStations:        orDefault(limits.MaxStations, DefaultMaxStations),
		MaxPumpsPerStation: orDefault(limits.MaxPumpsPerStation, DefaultMaxPumpsPerStation),
		MaxNozzlesPerPump:  orDefault(limits.MaxNozzlesPerPump, DefaultMaxNozzlesPerPump),
		PriceMonthly:       shared.RoundMoney(monthly),
		PriceYearly:        shared.RoundMoney(yearly),
		Features:           normalizeFeatures(features),
	}
	if err := p.validateLimits(); err != nil {
		return nil, err
	}
	return p, nil
}

// PlanUpdate is a partial update; nil fields are left unchanged
type PlanUpdate struct {
	Name               *string
	MaxStations        *int
	MaxPumpsPerStation *int
	MaxNozzlesPerPump  *int
	PriceMonthly       *decimal.Decimal
	PriceYearly        *decimal.Decimal
	Features           []string
}

// Apply applies a partial update
func (p *Plan) Apply(u PlanUpdate) error {
	next := *p
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return shared.NewDomainError(shared.CodeInvalidInput, "Plan name cannot be empty")
		}
		next.Name = name
	}
	if u.MaxStations != nil {
		next.MaxStations = *u.MaxStations
	}
	if u.MaxPumpsPerStation != nil {
		next.MaxPumpsPerStation = *u.MaxPumpsPerStation
	}
	if u.MaxNozzlesPerPump != nil {
		next.MaxNozzlesPerPump = *u.MaxNozzlesPerPump
	}
	if u.PriceMonthly != nil {
		if u.PriceMonthly.IsNegative() {
			return shared.NewDomainError(shared.CodeInvalidInput, "Plan price cannot be negative")
		}
		next.PriceMonthly = shared.RoundMoney(*u.PriceMonthly)
	}
	if u.PriceYearly != nil {
		if u.PriceYearly.IsNegative() {
			return shared.NewDomainError(shared.CodeInvalidInput, "Plan price cannot be negative")
		}
		next.PriceYearly = shared.RoundMoney(*u.PriceYearly)
	}
	if u.Features != nil {
		next.Features = normalizeFeatures(u.Features)
	}
	if err := next.validateLimits(); err != nil {
		return err
	}
	next.Touch()
	*p = next
	return nil
}

// HasFeature reports whether the plan enables a feature flag
func (p *Plan) HasFeature(feature string) bool {
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

func (p *Plan) validateLimits() error {
	if p.MaxStations < 1 || p.MaxPumpsPerStation < 1 || p.MaxNozzlesPerPump < 1 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Plan limits must be at least 1")
	}
	return nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func normalizeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
