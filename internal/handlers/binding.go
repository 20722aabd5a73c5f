package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"go-todo-web/internal/services"
)

// エラーメッセージにGoのフィールド名ではなくformタグの名前を使う。
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindingErrors はShouldBindの失敗をフィールド毎のメッセージに変換します。
// 検証エラー以外 (フォームのパース失敗など) は "form" フィールドにまとめます。
func bindingErrors(err error) *services.ValidationError {
	verr := services.NewValidationError()
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		verr.Add("form", "Invalid form submission")
		return verr
	}
	for _, fe := range fieldErrors {
		verr.Add(fe.Field(), bindingMessage(fe))
	}
	return verr
}

// bindingMessage は検証タグから表示用メッセージを組み立てます。
func bindingMessage(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " must not be empty"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be %s characters or fewer", label, fe.Param())
	case "email":
		return label + " must be a valid address"
	case "datetime":
		return label + " must be a valid date (YYYY-MM-DD)"
	case "eqfield":
		return "Passwords do not match"
	default:
		return label + " is invalid"
	}
}

// fieldLabel はformタグの名前を表示用のラベルにします (例: due_date -> Due date)。
func fieldLabel(field string) string {
	label := strings.ReplaceAll(field, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
