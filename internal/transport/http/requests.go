package http

import (
	"time"

	"github.com/go-playground/validator/v10"

	apierrors "ncdash/internal/errors"
	"ncdash/pkg/contracts/domain"
)

var validate = validator.New()

const criteriaDateLayout = "2006-01-02"

// CriteriaRequest is the JSON body of the summary and export
// operations. Dates are ISO calendar days; the three value sets select
// exactly the listed values, so an empty set selects nothing.
type CriteriaRequest struct {
	DateFrom        string   `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo          string   `json:"date_to" validate:"required,datetime=2006-01-02"`
	Classifications []string `json:"classifications"`
	Departments     []string `json:"departments"`
	Statuses        []string `json:"statuses"`
}

// Validate checks field formats and the date ordering.
func (r *CriteriaRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]apierrors.ValidationError, 0, len(validationErrs))
			for _, fieldErr := range validationErrs {
				fields = append(fields, apierrors.ValidationError{
					Field:   fieldErr.Field(),
					Message: "failed validation: " + fieldErr.Tag(),
				})
			}
			return apierrors.NewValidationErrors(fields)
		}
		return apierrors.InvalidRequestWithError(err)
	}

	from, _ := time.Parse(criteriaDateLayout, r.DateFrom)
	to, _ := time.Parse(criteriaDateLayout, r.DateTo)
	if to.Before(from) {
		return apierrors.ErrValidation("date_to", "must not precede date_from")
	}
	return nil
}

// ToCriteria converts a validated request into domain filter criteria.
func (r *CriteriaRequest) ToCriteria() domain.FilterCriteria {
	from, _ := time.Parse(criteriaDateLayout, r.DateFrom)
	to, _ := time.Parse(criteriaDateLayout, r.DateTo)
	return domain.FilterCriteria{
		DateFrom:        from,
		DateTo:          to,
		Classifications: r.Classifications,
		Departments:     r.Departments,
		Statuses:        r.Statuses,
	}
}
