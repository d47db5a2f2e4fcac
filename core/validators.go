package core

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "this field cannot be blank"

	sectorTag   = "sector"
	sectorText  = `only letters, digits, spaces and & / - are allowed (max. 64 characters, "year" is reserved)`
	sectorRegex = regexp.MustCompile(`^[\pL\d][\pL\d\s&/\-]{0,63}$`)

	// ReservedSector is the key holding the year in sector growth rows.
	ReservedSector = "year"

	employeesRangeTag  = "employeesrange"
	employeesRangeText = `must look like "10" or "11-50"`

	// EmployeesRangeRegex matches "N" or "N-M", capturing N and M.
	EmployeesRangeRegex = regexp.MustCompile(`^\s*(\d+)\s*(?:-\s*(\d+)\s*)?$`)

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(notBlankTag, notBlankText)

	_ = Validate.RegisterValidation(sectorTag, sectorValidation)
	RegisterCustomTranslation(sectorTag, sectorText)

	_ = Validate.RegisterValidation(employeesRangeTag, employeesRangeValidation)
	RegisterCustomTranslation(employeesRangeTag, employeesRangeText)

	RegisterCustomTranslation(requiredTag, requiredText, true)
	RegisterCustomTranslation(requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func sectorValidation(fl validator.FieldLevel) bool {
	sector := strings.TrimSpace(fl.Field().String())
	return sectorRegex.MatchString(sector) && !strings.EqualFold(sector, ReservedSector)
}

func employeesRangeValidation(fl validator.FieldLevel) bool {
	return EmployeesRangeRegex.MatchString(fl.Field().String())
}
