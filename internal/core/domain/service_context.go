package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/offering_reconciliation/internal/apperrors"
)

// ServiceDateLayout is the wire format of a service date.
const ServiceDateLayout = "2006-01-02"

// ServiceType classifies the meeting the offering was collected at.
type ServiceType string

const (
	SundayService ServiceType = "SUNDAY_SERVICE"
	BibleStudy    ServiceType = "BIBLE_STUDY"
	Special       ServiceType = "SPECIAL"
	Other         ServiceType = "OTHER"
)

// ServiceTypes lists every recognized service type.
var ServiceTypes = []ServiceType{SundayService, BibleStudy, Special, Other}

// IsValid reports whether t is a recognized service type.
func (t ServiceType) IsValid() bool {
	switch t {
	case SundayService, BibleStudy, Special, Other:
		return true
	}
	return false
}

// Label returns the printable name of the service type.
func (t ServiceType) Label() string {
	switch t {
	case SundayService:
		return "Sunday Service"
	case BibleStudy:
		return "Bible Study"
	case Special:
		return "Special Service"
	case Other:
		return "Other"
	default:
		return string(t)
	}
}

// ParseServiceType accepts the type code in any letter case.
func ParseServiceType(s string) (ServiceType, error) {
	t := ServiceType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown service type %q", apperrors.ErrValidation, s)
	}
	return t, nil
}

// ServiceContext identifies the meeting a count belongs to.
type ServiceContext struct {
	Date time.Time   `json:"date"`
	Type ServiceType `json:"type"`
}

// NewServiceContext normalizes date to a UTC calendar day and validates the type.
func NewServiceContext(date time.Time, serviceType ServiceType) (ServiceContext, error) {
	if date.IsZero() {
		return ServiceContext{}, fmt.Errorf("%w: service date is required", apperrors.ErrValidation)
	}
	if !serviceType.IsValid() {
		return ServiceContext{}, fmt.Errorf("%w: unknown service type %q", apperrors.ErrValidation, serviceType)
	}
	y, m, d := date.Date()
	return ServiceContext{
		Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Type: serviceType,
	}, nil
}

// ParseServiceContext parses a "2006-01-02" date and a service type code.
func ParseServiceContext(date, serviceType string) (ServiceContext, error) {
	d, err := time.Parse(ServiceDateLayout, strings.TrimSpace(date))
	if err != nil {
		return ServiceContext{}, fmt.Errorf("%w: service date %q must be YYYY-MM-DD", apperrors.ErrValidation, date)
	}
	t, err := ParseServiceType(serviceType)
	if err != nil {
		return ServiceContext{}, err
	}
	return NewServiceContext(d, t)
}

// IsZero reports whether no context has been set.
func (c ServiceContext) IsZero() bool {
	return c.Date.IsZero() && c.Type == ""
}

// DateString formats the service date as YYYY-MM-DD.
func (c ServiceContext) DateString() string {
	return c.Date.Format(ServiceDateLayout)
}
