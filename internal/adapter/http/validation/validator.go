package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/model/request"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	if err := Validator.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	// Field names in errors follow the JSON body.
	Validator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	Validator.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if p, ok := field.Interface().(request.Price); ok {
			return p.InexactFloat64()
		}

		return nil
	}, request.Price{})

	// An absent patch field yields nil so omitempty skips it; a present one
	// yields a pointer so even an empty value is validated.
	Validator.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if p, ok := field.Interface().(request.Present); ok {
			return p.Pointer()
		}

		return nil
	},
		request.Optional[string]{},
		request.Optional[int]{},
		request.Optional[request.Price]{},
		request.Optional[domain.PropertyType]{},
	)

	addCustomTranslations()
}

func addCustomTranslations() {
	Validator.RegisterTranslation("notblank", Translator, func(ut ut.Translator) error {
		return ut.Add("notblank", "{0} must not be blank", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("notblank", fe.Field())
		return t
	})
}

// FormatValidationErrors turns validator errors into the invalid_params map,
// keyed by JSON field name.
func FormatValidationErrors(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors

	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			fields[fieldError.Field()] = fieldError.Translate(Translator)
		}
	}

	return fields
}

// ValidateStruct returns a domain validation error carrying the field messages.
func ValidateStruct(value any) error {
	if err := Validator.Struct(value); err != nil {
		return domain.NewValidationError(FormatValidationErrors(err))
	}

	return nil
}

// ValidateBatch checks the size of an already de-duplicated id list.
func ValidateBatch(ids []uuid.UUID) error {
	if err := Validator.Var(ids, "min=1,max=100"); err != nil {
		var validationErrors validator.ValidationErrors

		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return domain.NewValidationError(map[string]string{
				"ids": "ids" + strings.TrimPrefix(validationErrors[0].Translate(Translator), validationErrors[0].Field()),
			})
		}

		return domain.NewValidationError(map[string]string{"ids": err.Error()})
	}

	return nil
}
