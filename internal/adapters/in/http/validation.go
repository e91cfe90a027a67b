package http

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"dispatch/internal/core/domain/model/kernel"
)

// newValidator returns a validator with the request-specific tags:
//
//	coordinate  a two element list of decimal strings: latitude in [-90, 90], longitude in [-180, 180]
//	int_gte=N   a base-10 integer string not less than N
func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("coordinate", func(fl validator.FieldLevel) bool {
		return isCoordinate(fl.Field())
	})

	_ = validate.RegisterValidation("int_gte", func(fl validator.FieldLevel) bool {
		bound, err := strconv.ParseInt(fl.Param(), 10, 64)
		if err != nil {
			return false
		}
		value, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 64)
		return err == nil && value >= bound
	})

	return validate
}

func isCoordinate(field reflect.Value) bool {
	if !field.IsValid() || !field.CanInterface() {
		return false
	}
	raw, ok := field.Interface().([]any)
	if !ok || len(raw) != 2 {
		return false
	}

	bounds := [2][2]float64{
		{kernel.LatitudeMin, kernel.LatitudeMax},
		{kernel.LongitudeMin, kernel.LongitudeMax},
	}
	for i, v := range raw {
		s, isString := v.(string)
		if !isString {
			return false
		}
		s = strings.TrimSpace(s)
		if !kernel.IsDecimal(s) {
			return false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f < bounds[i][0] || f > bounds[i][1] {
			return false
		}
	}
	return true
}

func parsePaging(req listOrdersRequest) (page, limit int64, err error) {
	page, err = strconv.ParseInt(strings.TrimSpace(req.Page), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	limit, err = strconv.ParseInt(strings.TrimSpace(req.Limit), 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}
