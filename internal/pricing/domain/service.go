package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Resolver looks up the applicable amount for a fee component. A nil
// amount with a nil error means "no price configured" — the caller decides
// whether that is fatal.
type Resolver interface {
	ResolveTuition(ctx context.Context, classID snowflake.ID) (*int64, error)
	ResolveTransport(ctx context.Context, areaID snowflake.ID) (*int64, error)
}

type SetClassPriceRequest struct {
	SchoolID string `json:"school_id"`
	ClassID  string `json:"class_id"`
	Amount   int64  `json:"amount"`
}

type SetTransportPriceRequest struct {
	SchoolID string `json:"school_id"`
	AreaID   string `json:"area_id"`
	Amount   int64  `json:"amount"`
}

type ListResponse struct {
	ClassPrices     []ClassPrice     `json:"class_prices"`
	TransportPrices []TransportPrice `json:"transport_prices"`
}

type Service interface {
	Resolver

	SetClassPrice(ctx context.Context, req SetClassPriceRequest) (*ClassPrice, error)
	SetTransportPrice(ctx context.Context, req SetTransportPriceRequest) (*TransportPrice, error)
	List(ctx context.Context, schoolID snowflake.ID) (ListResponse, error)
}

var (
	ErrInvalidSchool = errors.New("invalid_school")
	ErrInvalidClass  = errors.New("invalid_class")
	ErrInvalidArea   = errors.New("invalid_area")
	ErrInvalidAmount = errors.New("invalid_amount")
)
