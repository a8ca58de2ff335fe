package services

import (
	"reflect"
	"strings"
	"sync"

	"busbooking/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// report json names so the client can map errors to form fields
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// validateStruct runs the struct tags and returns a ValidationError listing
// every failed field, or nil.
func validateStruct(in any) error {
	err := inputValidator().Struct(in)
	if err == nil {
		return nil
	}
	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.ValidationError{Msg: "input tidak valid", Err: err}
	}
	fields := make([]domain.FieldError, 0, len(ves))
	for _, fe := range ves {
		fields = append(fields, domain.FieldError{Field: fe.Field(), Msg: fieldMessage(fe)})
	}
	return domain.ValidationError{Msg: "validasi gagal", Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "required_if":
		parts := strings.Fields(fe.Param())
		if len(parts) == 2 {
			return "wajib diisi untuk status " + parts[1]
		}
		return "wajib diisi"
	case "required_with":
		return "wajib diisi bila bus dipilih"
	case "oneof":
		return "harus salah satu dari: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "minimal " + fe.Param()
	case "lte":
		return "maksimal " + fe.Param()
	case "datetime":
		return "format tanggal harus YYYY-MM-DD"
	default:
		return "tidak valid (" + fe.Tag() + ")"
	}
}

// mergeValidation appends extra field errors to a validator result.
func mergeValidation(err error, extra ...domain.FieldError) error {
	if len(extra) == 0 {
		return err
	}
	var fields []domain.FieldError
	if err != nil {
		ve, ok := err.(domain.ValidationError)
		if !ok {
			return err
		}
		fields = append(fields, ve.FieldErrors()...)
	}
	fields = append(fields, extra...)
	return domain.ValidationError{Msg: "validasi gagal", Fields: fields}
}
