package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const (
	studentIDRule  = "len=10"
	sortOrderRule  = "min=3,max=4"
	bodyLocalKey   = "validated_body"
	idLocalKey     = "student_id"
	locBody        = "body"
	locPath        = "path"
	locQuery       = "query"
	typeMissing    = "value_error.missing"
	typeMinLength  = "value_error.any_str.min_length"
	typeMaxLength  = "value_error.any_str.max_length"
	typeJSONDecode = "value_error.jsondecode"
)

// validationIssue is one entry of a 422 response body.
type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

var validate = newValidator()

// newValidator reports fields under their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeValidation(c *fiber.Ctx, issues []validationIssue) error {
	return writeError(c, fiber.StatusUnprocessableEntity, issues)
}

// validateID decodes the :id path parameter and rejects it unless it is
// exactly 10 characters. Handlers read the decoded value with studentID.
func validateID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		loc := []string{locPath, "id"}
		id, err := url.PathUnescape(c.Params("id"))
		if err != nil {
			return writeValidation(c, []validationIssue{{Loc: loc, Msg: "invalid percent-encoding", Type: "value_error"}})
		}
		if err := validate.Var(id, studentIDRule); err != nil {
			return writeValidation(c, []validationIssue{lengthIssue(loc, id, 10)})
		}
		// Params point into the request buffer; keep an owned copy.
		c.Locals(idLocalKey, utils.CopyString(id))
		return c.Next()
	}
}

func studentID(c *fiber.Ctx) string {
	id, _ := c.Locals(idLocalKey).(string)
	return id
}

// validateListQuery checks the order query parameter whenever it is present,
// including an empty value.
func validateListQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !c.Context().QueryArgs().Has("order") {
			return c.Next()
		}
		if err := validate.Var(c.Query("order"), sortOrderRule); err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				return writeValidation(c, []validationIssue{issueFromFieldError([]string{locQuery, "order"}, ve[0])})
			}
			return err
		}
		return c.Next()
	}
}

// bindBody decodes the JSON body into T, validates it and stores it in locals
// for the handler to pick up with bodyFrom.
func bindBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req T
		if len(c.Body()) == 0 {
			return writeValidation(c, []validationIssue{{Loc: []string{locBody}, Msg: "field required", Type: typeMissing}})
		}
		if err := c.BodyParser(&req); err != nil {
			return writeValidation(c, []validationIssue{decodeIssue(err)})
		}

		if err := validate.Struct(req); err != nil {
			var ve validator.ValidationErrors
			if !errors.As(err, &ve) {
				return err
			}
			issues := make([]validationIssue, 0, len(ve))
			for _, fe := range ve {
				issues = append(issues, issueFromFieldError([]string{locBody, fe.Field()}, fe))
			}
			return writeValidation(c, issues)
		}

		c.Locals(bodyLocalKey, req)
		return c.Next()
	}
}

func bodyFrom[T any](c *fiber.Ctx) T {
	v, _ := c.Locals(bodyLocalKey).(T)
	return v
}

func issueFromFieldError(loc []string, fe validator.FieldError) validationIssue {
	switch fe.Tag() {
	case "required":
		return validationIssue{Loc: loc, Msg: "field required", Type: typeMissing}
	case "len":
		n, _ := strconv.Atoi(fe.Param())
		s, _ := fe.Value().(string)
		return lengthIssue(loc, s, n)
	case "min":
		return validationIssue{Loc: loc, Msg: "ensure this value has at least " + fe.Param() + " characters", Type: typeMinLength}
	case "max":
		return validationIssue{Loc: loc, Msg: "ensure this value has at most " + fe.Param() + " characters", Type: typeMaxLength}
	default:
		return validationIssue{Loc: loc, Msg: fmt.Sprintf("failed on the '%s' rule", fe.Tag()), Type: "value_error"}
	}
}

// lengthIssue describes an exact-length violation as a too-short or too-long value.
func lengthIssue(loc []string, s string, n int) validationIssue {
	if utf8.RuneCountInString(s) < n {
		return validationIssue{Loc: loc, Msg: fmt.Sprintf("ensure this value has at least %d characters", n), Type: typeMinLength}
	}
	return validationIssue{Loc: loc, Msg: fmt.Sprintf("ensure this value has at most %d characters", n), Type: typeMaxLength}
}

func decodeIssue(err error) validationIssue {
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		kind := typeName(te.Type)
		loc := []string{locBody}
		if te.Field != "" {
			loc = append(loc, strings.Split(te.Field, ".")...)
		}
		return validationIssue{
			Loc:  loc,
			Msg:  "value is not a valid " + kind,
			Type: "type_error." + kind,
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return validationIssue{Loc: []string{locBody}, Msg: "unsupported content type", Type: "value_error"}
	}
	return validationIssue{Loc: []string{locBody}, Msg: "invalid JSON body", Type: typeJSONDecode}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.String:
		return "string"
	case reflect.Struct, reflect.Map:
		return "dict"
	default:
		return t.Kind().String()
	}
}
