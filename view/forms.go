package view

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"ckmconsole/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

// FormError carries per-field messages keyed by form field name.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Field returns the message for one field, or "".
func (e *FormError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// AsFormError extracts a *FormError from err.
func AsFormError(err error) *FormError {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

// Validate runs the required-field checks declared on a form struct.
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := &FormError{Fields: make(map[string]string, len(verrs))}
	for _, ve := range verrs {
		fe.Fields[ve.Field()] = "必填项"
	}
	return fe
}

// Bind copies url-encoded values into the string fields of dst, matched by
// their form tag. dst must be a pointer to a struct.
func Bind(values url.Values, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind: want pointer to struct, got %T", dst)
	}
	rv = rv.Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name := f.Tag.Get("form")
		if name == "" || f.Type.Kind() != reflect.String {
			continue
		}
		if vs, ok := values[name]; ok && len(vs) > 0 {
			rv.Field(i).SetString(strings.TrimSpace(vs[0]))
		}
	}
	return nil
}

// coercer converts form strings and collects the fields that failed.
type coercer struct {
	errs map[string]string
}

func (c *coercer) fail(field, msg string) {
	if c.errs == nil {
		c.errs = make(map[string]string)
	}
	c.errs[field] = msg
}

func (c *coercer) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &FormError{Fields: c.errs}
}

func (c *coercer) int64(field, s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		c.fail(field, "必须是整数")
	}
	return n
}

func (c *coercer) int(field, s string) int {
	return int(c.int64(field, s))
}

func (c *coercer) float(field, s string) float64 {
	if s == "" {
		return 0
	}
	f, err := ParseFinite(s)
	if err != nil {
		c.fail(field, "必须是数字")
	}
	return f
}

// ParseFinite parses a decimal number, rejecting NaN and the infinities
// strconv accepts.
func ParseFinite(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return f, nil
}

func (c *coercer) decimal(field, s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		c.fail(field, "必须是金额")
		return nil
	}
	return &d
}

func (c *coercer) time(field, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := domain.ParseTime(s)
	if err != nil {
		c.fail(field, "日期格式无效")
	}
	return t
}

func formatInt(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
