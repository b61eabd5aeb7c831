// Package validator wires go-playground/validator into gin binding with
// English messages and the schedule-specific tags.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/stemsi/classgrid-backend/internal/model"
)

// trans is the English translator shared by every request.
var trans ut.Translator

// custom are the tags this package adds on top of the built-in ones.
var custom = []struct {
	tag     string
	fn      govalidator.Func
	message string
}{
	{"schoolday", isSchoolDay, "{0} must be a school day from Monday to Saturday"},
	{"gridslot", isGridSlot, "{0} must be a start time between 7:00 and 17:00 on the half hour"},
}

// Setup registers English translations and the custom tags on gin's engine.
// Call once during startup.
func Setup() {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return
	}

	// Field names come from the json tag, then the form tag.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	trans, _ = ut.New(enLocale, enLocale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	for _, c := range custom {
		_ = v.RegisterValidation(c.tag, c.fn)
		message := c.message
		_ = v.RegisterTranslation(c.tag, trans,
			func(u ut.Translator) error { return u.Add(c.tag, message, true) },
			func(u ut.Translator, fe govalidator.FieldError) string {
				t, err := u.T(fe.Tag(), fe.Field())
				if err != nil {
					return fe.Error()
				}
				return t
			})
	}
}

func isSchoolDay(fl govalidator.FieldLevel) bool {
	_, err := model.ParseDay(fl.Field().String())
	return err == nil
}

func isGridSlot(fl govalidator.FieldLevel) bool {
	_, err := model.ParseSlot(fl.Field().String())
	return err == nil
}

// TranslateErrors turns a binding error into field name → message.
// Anything that is not a validation error (bad JSON, wrong type) lands under "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates a JSON body into dst.
// Returns nil on success or the translated field errors.
func Bind(c *gin.Context, dst any) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindForm binds a JSON body or a url-encoded form, chosen by Content-Type.
// The login endpoint accepts both.
func BindForm(c *gin.Context, dst any) map[string]string {
	if err := c.ShouldBind(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindQuery binds and validates the query string into dst.
func BindQuery(c *gin.Context, dst any) map[string]string {
	if err := c.ShouldBindQuery(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
