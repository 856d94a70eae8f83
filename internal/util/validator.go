package util

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var youtubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com|youtu\.?be)/.+`)

// IsYouTubeURL 校验 YouTube 视频链接
func IsYouTubeURL(s string) bool {
	return youtubeURLPattern.MatchString(s)
}

func validateYouTubeURL(fl validator.FieldLevel) bool {
	return IsYouTubeURL(fl.Field().String())
}

// RegisterValidators 向 gin 默认校验器注册自定义规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	// 错误信息中使用 json 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v.RegisterValidation("youtube_url", validateYouTubeURL)
}

// ValidationDetails 把校验错误转换成 字段 -> 提示 的映射
func ValidationDetails(err error) map[string]string {
	details := map[string]string{}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return details
	}
	for _, fe := range errs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			details[field] = field + " is required"
		case "youtube_url":
			details[field] = "Invalid YouTube URL"
		default:
			details[field] = field + " is invalid"
		}
	}
	return details
}
