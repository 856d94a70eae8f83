package util

import (
	"errors"
	"io"
	"net/http"
	"strings"
)

// ValidateMimeType 读取文件头部嗅探 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "image/", "application/pdf"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])
	base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(base, allowed) || base == allowed {
			return base, nil
		}
	}

	return base, errors.New("invalid file type: " + mimeType)
}
