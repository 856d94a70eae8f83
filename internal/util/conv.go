package util

import (
	"strconv"
	"time"
)

// ParseUintParam 解析路径参数，0 视为无效
func ParseUintParam(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ParseDate 解析 YYYY-MM-DD，空字符串返回 nil
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseDueDate 按 DueDateFormats 顺序尝试解析
func ParseDueDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	var lastErr error
	for _, layout := range DueDateFormats {
		t, err := time.Parse(layout, s)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// FormatDate 空时间返回空字符串
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateFormat)
}
