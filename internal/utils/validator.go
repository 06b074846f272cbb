package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// InitValidator 初始化验证器
func InitValidator() {
	validate = validator.New()

	// 注册自定义验证函数
	validate.RegisterValidation("annotator", validateAnnotatorName)
}

// GetValidator 获取验证器实例
func GetValidator() *validator.Validate {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// validateAnnotatorName 验证标注员姓名
// 姓名会拼进输出文件名，限制为字母、数字、下划线和连字符
func validateAnnotatorName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if len(name) < 1 || len(name) > 50 {
		return false
	}
	matched, _ := regexp.MatchString("^[a-zA-Z0-9_-]+$", name)
	return matched
}

// ValidateStruct 验证结构体
func ValidateStruct(s interface{}) error {
	v := GetValidator()
	if err := v.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError 格式化验证错误
func formatValidationError(err error) error {
	var errors []string

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			param := e.Param()

			var message string
			switch tag {
			case "required":
				message = fmt.Sprintf("%s是必填字段", field)
			case "oneof":
				message = fmt.Sprintf("%s必须是以下值之一: %s", field, param)
			case "annotator":
				message = fmt.Sprintf("%s只能包含字母、数字、下划线和连字符，长度1-50", field)
			default:
				message = fmt.Sprintf("%s验证失败: %s", field, tag)
			}

			errors = append(errors, message)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return err
}
