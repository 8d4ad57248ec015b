// Package validate provides struct-tag validation for request input.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	phone               E.164-ish phone number (+ prefix optional, 7-15 digits)
//	url                 valid URL (http/https)
//	boolean             "true","false","1","0" (or actual bool)
//	numeric             any number
//	integer             whole number
//	alpha_num           letters and digits only
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	size=N              string: exact length
//	between=min,max     number or string length between min and max (inclusive)
//	digits=N            exactly N decimal digits
//	gte=N / lte=N       number >= N / <= N
//	in=a,b,c            value must be one of the listed items
//	not_in=a,b,c        value must NOT be one of the listed items
//	confirmed           value must equal sibling field <field>_confirmation
//
// Example:
//
//	type Input struct {
//	    Email string `json:"email" validate:"required,email"`
//	    Code  string `json:"code"  validate:"required,digits=6"`
//	    Role  string `json:"role"  validate:"required,in=user,seller,admin"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$`)
	phoneRE = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// Struct validates all exported fields of v carrying a `validate` tag.
// Returns a map of fieldName → message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range mergeRangeRules(rules) {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value, rv); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}
	return errs
}

// HasErrors reports whether the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func applyRule(rule, field string, v reflect.Value, parent reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "phone":
		if !phoneRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid phone number.", field)
		}
	case "url":
		u, err := url.ParseRequestURI(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Sprintf("The %s must be a valid URL.", field)
		}
	case "boolean":
		lower := strings.ToLower(raw)
		if v.Kind() != reflect.Bool && lower != "true" && lower != "false" && lower != "1" && lower != "0" {
			return fmt.Sprintf("The %s field must be true or false.", field)
		}
	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s must be a number.", field)
		}
	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s must be an integer.", field)
		}
	case "alpha_num":
		for _, r := range raw {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return fmt.Sprintf("The %s may only contain letters and numbers.", field)
			}
		}
	case "min":
		if !compareSize(v, raw, param, func(got, want float64) bool { return got >= want }) {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
	case "max":
		if !compareSize(v, raw, param, func(got, want float64) bool { return got <= want }) {
			return fmt.Sprintf("The %s may not be greater than %s.", field, param)
		}
	case "gte":
		if !compareNum(raw, param, func(got, want float64) bool { return got >= want }) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lte":
		if !compareNum(raw, param, func(got, want float64) bool { return got <= want }) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "size":
		want, _ := strconv.Atoi(param)
		if v.Kind() == reflect.String && len([]rune(raw)) != want {
			return fmt.Sprintf("The %s must be %s characters.", field, param)
		}
	case "digits":
		want, _ := strconv.Atoi(param)
		if len(raw) != want || !allDigits(raw) {
			return fmt.Sprintf("The %s must be %s digits.", field, param)
		}
	case "between":
		bounds := strings.Split(param, ",")
		if len(bounds) == 2 {
			lo, _ := strconv.ParseFloat(bounds[0], 64)
			hi, _ := strconv.ParseFloat(bounds[1], 64)
			got := sizeOf(v, raw)
			if got < lo || got > hi {
				return fmt.Sprintf("The %s must be between %s and %s.", field, bounds[0], bounds[1])
			}
		}
	case "in":
		if !contains(strings.Split(param, ","), raw) {
			return fmt.Sprintf("The selected %s is invalid.", field)
		}
	case "not_in":
		if contains(strings.Split(param, ","), raw) {
			return fmt.Sprintf("The selected %s is invalid.", field)
		}
	case "confirmed":
		sibling := parent.FieldByNameFunc(func(n string) bool {
			return strings.EqualFold(n, v.Type().Name()) || strings.EqualFold(jsonName(parent, n), field+"_confirmation")
		})
		if !sibling.IsValid() || fmt.Sprintf("%v", sibling.Interface()) != raw {
			return fmt.Sprintf("The %s confirmation does not match.", field)
		}
	}
	return ""
}

// mergeRangeRules re-joins "between=1,10" that Split broke apart.
func mergeRangeRules(rules []string) []string {
	var out []string
	for i := 0; i < len(rules); i++ {
		r := rules[i]
		if (strings.HasPrefix(r, "between=") || strings.HasPrefix(r, "in=") || strings.HasPrefix(r, "not_in=")) && i+1 < len(rules) {
			// Greedily absorb following segments that are not themselves rules.
			for i+1 < len(rules) && !looksLikeRule(rules[i+1]) {
				r += "," + rules[i+1]
				i++
			}
		}
		out = append(out, r)
	}
	return out
}

func looksLikeRule(s string) bool {
	known := []string{"required", "nullable", "email", "phone", "url", "boolean",
		"numeric", "integer", "alpha_num", "confirmed"}
	for _, k := range known {
		if s == k {
			return true
		}
	}
	return strings.Contains(s, "=")
}

func compareSize(v reflect.Value, raw, param string, cmp func(got, want float64) bool) bool {
	want, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return true
	}
	return cmp(sizeOf(v, raw), want)
}

func compareNum(raw, param string, cmp func(got, want float64) bool) bool {
	got, err1 := strconv.ParseFloat(raw, 64)
	want, err2 := strconv.ParseFloat(param, 64)
	if err1 != nil || err2 != nil {
		return false
	}
	return cmp(got, want)
}

// sizeOf is the rule's notion of magnitude: char length for strings,
// numeric value for everything parseable.
func sizeOf(v reflect.Value, raw string) float64 {
	if v.Kind() == reflect.String {
		return float64(len([]rune(raw)))
	}
	f, _ := strconv.ParseFloat(raw, 64)
	return f
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if strings.TrimSpace(item) == s {
			return true
		}
	}
	return false
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if r == name {
			return true
		}
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func jsonFieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return strings.ToLower(field.Name)
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(field.Name)
	}
	return name
}

func jsonName(parent reflect.Value, fieldName string) string {
	f, ok := parent.Type().FieldByName(fieldName)
	if !ok {
		return strings.ToLower(fieldName)
	}
	return jsonFieldName(f)
}
