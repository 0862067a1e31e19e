package quotation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ginjaninja78/quotegen/internal/types"
)

// EmailMessage is shown next to an email address with the wrong shape.
const EmailMessage = "請輸入正確的電子信箱格式"

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// submission carries the fields that gate submitting a document.
type submission struct {
	Company      string           `json:"company" validate:"required"`
	QuoterName   string           `json:"quoterName" validate:"required"`
	Email        string           `json:"email" validate:"required,emailshape"`
	ServiceItems []types.LineItem `json:"serviceItems" validate:"priceditem"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})

	// Registration only fails on an empty tag or a nil func.
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("priceditem", func(fl validator.FieldLevel) bool {
		items, ok := fl.Field().Interface().([]types.LineItem)
		return ok && hasPricedItem(items)
	})

	return v
}

// ValidEmail reports whether s has the shape local@domain.tld.
func ValidEmail(s string) bool {
	return emailShape.MatchString(s)
}

// EmailProblem returns the inline message for email, or "" when the field
// is empty or well formed.
func EmailProblem(email string) string {
	if email == "" || ValidEmail(email) {
		return ""
	}
	return EmailMessage
}

// Validate reports whether doc can be submitted: company, quoter name and a
// well-formed email are set and at least one item has a name and a price.
//
// RETURNS:
//   - nil, or a *ValidationError listing every failed rule.
func Validate(doc types.Document) error {
	err := validate.Struct(submission{
		Company:      doc.Company,
		QuoterName:   doc.QuoterName,
		Email:        doc.Email,
		ServiceItems: doc.ServiceItems,
	})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: formatFieldError(fe),
		})
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "emailshape":
		return EmailMessage
	case "priceditem":
		return "at least one item needs a name and a price above 0"
	default:
		return "failed validation: " + fe.Tag()
	}
}

func hasPricedItem(items []types.LineItem) bool {
	for _, it := range items {
		if it.Item != "" && it.Price > 0 {
			return true
		}
	}
	return false
}
