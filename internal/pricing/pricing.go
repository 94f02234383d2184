// Package pricing derives enrollment fees from the static fee schedule.
package pricing

import (
	"errors"
	"fmt"

	"github.com/noah-isme/academy-enrollment-api/internal/models"
	"github.com/noah-isme/academy-enrollment-api/pkg/config"
)

// ErrUnknownDeliveryFormat is returned for a format missing from the fee table.
var ErrUnknownDeliveryFormat = errors.New("unknown delivery format")

// Default fees in Naira.
const (
	DefaultRegistrationFee int64 = 20000
	DefaultInClassFee      int64 = 650000
	DefaultOnlineFee       int64 = 500000
)

// Schedule is the registration fee plus a closed table of course fees.
type Schedule struct {
	registration int64
	course       map[models.DeliveryFormat]int64
}

// DefaultSchedule returns the academy's published fees.
func DefaultSchedule() Schedule {
	return NewSchedule(DefaultRegistrationFee, DefaultInClassFee, DefaultOnlineFee)
}

// NewSchedule builds a schedule from explicit amounts.
func NewSchedule(registration, inClass, online int64) Schedule {
	return Schedule{
		registration: registration,
		course: map[models.DeliveryFormat]int64{
			models.DeliveryInClass: inClass,
			models.DeliveryOnline:  online,
		},
	}
}

// FromConfig builds a schedule from FEE_* settings, rejecting non-positive amounts.
func FromConfig(cfg config.FeesConfig) (Schedule, error) {
	if cfg.Registration < 0 || cfg.CourseInClass <= 0 || cfg.CourseOnline <= 0 {
		return Schedule{}, fmt.Errorf("invalid fee schedule: registration=%d in-class=%d online=%d", cfg.Registration, cfg.CourseInClass, cfg.CourseOnline)
	}
	return NewSchedule(cfg.Registration, cfg.CourseInClass, cfg.CourseOnline), nil
}

// RegistrationFee returns the fixed registration fee.
func (s Schedule) RegistrationFee() int64 { return s.registration }

// CourseFee returns the course fee for f.
func (s Schedule) CourseFee(f models.DeliveryFormat) (int64, error) {
	fee, ok := s.course[f]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDeliveryFormat, f)
	}
	return fee, nil
}

// Total returns registration fee + course fee for f.
func (s Schedule) Total(f models.DeliveryFormat) (int64, error) {
	fee, err := s.CourseFee(f)
	if err != nil {
		return 0, err
	}
	return s.registration + fee, nil
}

// Breakdown returns the full fee breakdown for f.
func (s Schedule) Breakdown(f models.DeliveryFormat) (models.FeeBreakdown, error) {
	fee, err := s.CourseFee(f)
	if err != nil {
		return models.FeeBreakdown{}, err
	}
	return models.FeeBreakdown{
		RegistrationFee: s.registration,
		CourseFee:       fee,
		TotalAmount:     s.registration + fee,
	}, nil
}
