package coursework

import (
	"errors"
	"net/url"
	"strings"
)

// SubmissionMode 作业提交方式，三者互斥
type SubmissionMode string

const (
	ModeText SubmissionMode = "text"
	ModeFile SubmissionMode = "file"
	ModeLink SubmissionMode = "link"
)

var (
	ErrEmptySubmission   = errors.New("Please provide a submission")
	ErrInvalidURL        = errors.New("Please enter a valid URL")
	ErrMultipleModes     = errors.New("only one submission type may be provided")
	ErrUnknownSubmission = errors.New("unknown submission type")
)

func (m SubmissionMode) Valid() bool {
	switch m {
	case ModeText, ModeFile, ModeLink:
		return true
	}
	return false
}

// SubmissionInput 待校验的提交内容，HasFile 表示已选择文件
type SubmissionInput struct {
	Mode    SubmissionMode
	Text    string
	Link    string
	HasFile bool
}

// Validate 只校验所选方式对应的字段，其余字段忽略
func (in SubmissionInput) Validate() error {
	switch in.Mode {
	case ModeText:
		if strings.TrimSpace(in.Text) == "" {
			return ErrEmptySubmission
		}
	case ModeFile:
		if !in.HasFile {
			return ErrEmptySubmission
		}
	case ModeLink:
		return ValidateLink(in.Link)
	default:
		return ErrUnknownSubmission
	}
	return nil
}

// ValidateLink 要求绝对 URL；http/https 还必须带主机名
func ValidateLink(raw string) error {
	_, err := NormalizeLink(raw)
	return err
}

// NormalizeLink 校验并返回规范化后的链接。
// http/https 缺少 "//" 时（如 "http:example.com"）补全为 "http://example.com/"，空路径补 "/"。
func NormalizeLink(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidURL
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "", ErrInvalidURL
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		if u.Host == "" && u.Opaque == "" && u.Path == "" {
			return "", ErrInvalidURL
		}
		return raw, nil
	}

	if u.Host == "" && u.Opaque != "" && !strings.HasPrefix(u.Opaque, "/") {
		fixed, err := url.Parse(scheme + "://" + u.Opaque)
		if err != nil {
			return "", ErrInvalidURL
		}
		fixed.RawQuery = u.RawQuery
		fixed.Fragment = u.Fragment
		u = fixed
	}
	if u.Host == "" || u.Hostname() == "" {
		return "", ErrInvalidURL
	}
	u.Scheme = scheme
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// DetectMode 服务端根据收到的字段判断提交方式，要求恰好提供一种
func DetectMode(text, link string, hasFile bool) (SubmissionMode, error) {
	var modes []SubmissionMode
	if strings.TrimSpace(text) != "" {
		modes = append(modes, ModeText)
	}
	if strings.TrimSpace(link) != "" {
		modes = append(modes, ModeLink)
	}
	if hasFile {
		modes = append(modes, ModeFile)
	}
	switch len(modes) {
	case 0:
		return "", ErrEmptySubmission
	case 1:
		in := SubmissionInput{Mode: modes[0], Text: text, Link: link, HasFile: hasFile}
		if err := in.Validate(); err != nil {
			return "", err
		}
		return modes[0], nil
	default:
		return "", ErrMultipleModes
	}
}
