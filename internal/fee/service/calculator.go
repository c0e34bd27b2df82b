package service

import (
	"context"

	"github.com/ADILZAMAL/al-sufiaan-school/internal/config"
	feedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/fee/domain"
	pricingdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/pricing/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

// CalcInput describes one student's billable situation for one period. The
// caller guarantees Hostel and TransportAreaID are mutually exclusive.
type CalcInput struct {
	ClassID         snowflake.ID
	Hostel          bool
	TransportAreaID *snowflake.ID
	NewAdmission    bool
}

type CalculatorParams struct {
	fx.In

	Resolver pricingdomain.Service
	FeeCfg   *config.FeeConfigHolder
}

// Calculator produces the ordered billable item list for one period.
type Calculator struct {
	resolver pricingdomain.Resolver
	feeCfg   *config.FeeConfigHolder
}

func NewCalculator(p CalculatorParams) *Calculator {
	return &Calculator{
		resolver: p.Resolver,
		feeCfg:   p.FeeCfg,
	}
}

// Calculate applies the fee rules in order: tuition, hostel, transport,
// admission. A class with no configured price is silently skipped, not an
// error; same for an unpriced transport area. An empty result is a valid
// output here — the generator decides what to do with it.
func (c *Calculator) Calculate(ctx context.Context, in CalcInput) ([]feedomain.FeeItem, error) {
	items := make([]feedomain.FeeItem, 0, 4)

	tuition, err := c.resolver.ResolveTuition(ctx, in.ClassID)
	if err != nil {
		return nil, err
	}
	if tuition != nil {
		items = append(items, feedomain.FeeItem{FeeType: feedomain.FeeTypeTuition, Amount: *tuition})
	}

	cfg := c.feeCfg.Get()
	if in.Hostel {
		items = append(items, feedomain.FeeItem{FeeType: feedomain.FeeTypeHostel, Amount: cfg.HostelAmount})
	}

	if in.TransportAreaID != nil {
		transport, err := c.resolver.ResolveTransport(ctx, *in.TransportAreaID)
		if err != nil {
			return nil, err
		}
		if transport != nil {
			items = append(items, feedomain.FeeItem{FeeType: feedomain.FeeTypeTransport, Amount: *transport})
		}
	}

	if in.NewAdmission {
		items = append(items, feedomain.FeeItem{FeeType: feedomain.FeeTypeAdmission, Amount: cfg.AdmissionAmount})
	}

	return items, nil
}
