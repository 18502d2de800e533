// Package validation wraps go-playground/validator with the custom rules
// used by tool input schemas.
package validation

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/closerlabs/leadfunnel/pkg/pagination"
)

var v *validator.Validate

// groupKeyNames lists the grouping fields accepted by metrics tools.
var groupKeyNames = map[string]struct{}{
	"country": {},
	"segment": {},
	"ae_name": {},
	"sc_type": {},
}

// Validator returns a singleton validator with custom rules registered.
func Validator() *validator.Validate {
	if v == nil {
		v = validator.New()
		// Custom: export path must have a supported extension
		_ = v.RegisterValidation("export_ext", func(fl validator.FieldLevel) bool {
			s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
			if s == "" {
				return false
			}
			return strings.HasSuffix(s, ".csv") || strings.HasSuffix(s, ".xlsx")
		})
		// Custom: group key must name a known classifier field
		_ = v.RegisterValidation("groupkey", func(fl validator.FieldLevel) bool {
			s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
			_, ok := groupKeyNames[s]
			return ok
		})
		// Custom: cursor must be decodable via pagination.DecodeCursor
		_ = v.RegisterValidation("cursor", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true // empty is allowed; use omitempty with this tag
			}
			if _, err := base64.RawURLEncoding.DecodeString(s); err != nil {
				return false
			}
			if _, err := pagination.DecodeCursor(s); err != nil {
				return false
			}
			return true
		})
		// Custom: ISO calendar date (YYYY-MM-DD)
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true
			}
			if len(s) != 10 || s[4] != '-' || s[7] != '-' {
				return false
			}
			for i, r := range s {
				if i == 4 || i == 7 {
					continue
				}
				if r < '0' || r > '9' {
					return false
				}
			}
			return true
		})
	}
	return v
}

// ValidateStruct validates a struct and returns a user-friendly error string
// suitable for MCP tool errors. Returns empty string when valid.
func ValidateStruct(s any) string {
	if err := Validator().Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				return fmt.Sprintf("VALIDATION: %s is required", field)
			case "export_ext":
				return "VALIDATION: path must be a Pipedrive export (.csv or .xlsx)"
			case "groupkey":
				return "VALIDATION: group keys must be one of country, segment, ae_name, sc_type"
			case "cursor":
				return "CURSOR_INVALID: failed to decode cursor; reissue the view and restart pagination"
			case "isodate":
				return fmt.Sprintf("VALIDATION: %s must be a calendar date (YYYY-MM-DD)", field)
			case "min", "max", "gte", "lte":
				return fmt.Sprintf("VALIDATION: %s must satisfy %s=%s", field, fe.Tag(), fe.Param())
			}
			return fmt.Sprintf("VALIDATION: invalid %s", field)
		}
		return "VALIDATION: invalid inputs"
	}
	return ""
}
