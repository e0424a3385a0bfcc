package cli

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/ghostledger/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// requestValidator checks the shape of flag input before it reaches the
// services. Field errors are reported by flag name.
func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if name := f.Tag.Get("flag"); name != "" {
				return "--" + name
			}
			return f.Name
		})
	})
	return validate
}

func validateRequest(req any) error {
	err := requestValidator().Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "datetime":
		return fmt.Sprintf("%s must match %s", fe.Field(), layoutHint(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "numeric":
		return fe.Field() + " must be a decimal number"
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

func layoutHint(layout string) string {
	switch layout {
	case domain.DateLayout:
		return "YYYY-MM-DD"
	case monthLayout:
		return "YYYY-MM"
	default:
		return layout
	}
}

const monthLayout = "2006-01"

type scenarioAddRequest struct {
	Name  string `flag:"name" validate:"required"`
	Start string `flag:"start" validate:"required,datetime=2006-01-02"`
	End   string `flag:"end" validate:"required,datetime=2006-01-02"`
}

type rolloverRequest struct {
	Name  string `flag:"name" validate:"required"`
	Start string `flag:"start" validate:"required,datetime=2006-01-02"`
	End   string `flag:"end" validate:"required,datetime=2006-01-02"`
}

type nodeAddRequest struct {
	Title string `flag:"title" validate:"required"`
	Type  string `flag:"type" validate:"required,oneof=Initiative Project SubProject Job AdjustmentBuffer"`
}

type entrySaveRequest struct {
	Node     string `flag:"node" validate:"required"`
	Account  string `flag:"account" validate:"required"`
	Month    string `flag:"month" validate:"required,datetime=2006-01"`
	Category string `flag:"category" validate:"required,oneof=Plan Result"`
	Amount   string `flag:"amount" validate:"required,numeric"`
}

type accountAddRequest struct {
	Name string `flag:"name" validate:"required"`
	Code string `flag:"code" validate:"required"`
	Type string `flag:"type" validate:"required,oneof=Revenue CostOfGoodsSold SellingGeneralAdmin"`
}

type serviceAddRequest struct {
	Name string `flag:"name" validate:"required"`
	Slug string `flag:"slug" validate:"required"`
}

// parseDate and parseMonth run after validateRequest has checked the layout.
func parseDate(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

func parseMonth(s string) time.Time {
	t, _ := time.Parse(monthLayout, s)
	return t
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: --amount %q is not a decimal number", domain.ErrValidation, s)
	}
	return d, nil
}

// changedString returns &v only when the flag was set explicitly, so an
// omitted flag and an empty value stay distinguishable.
func changedString(flags *pflag.FlagSet, name, v string) *string {
	if !flags.Changed(name) {
		return nil
	}
	return &v
}
