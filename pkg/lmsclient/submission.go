package lmsclient

import (
	"bytes"
	"context"
	"io"
	"lms_backend/pkg/coursework"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// SubmissionForm 作业提交表单，只有 Mode 对应的字段会被发送
type SubmissionForm struct {
	AssignmentID uint
	Mode         coursework.SubmissionMode
	Text         string
	Link         string
	FileName     string
	File         io.Reader
}

func (f *SubmissionForm) Validate() error {
	err := coursework.SubmissionInput{
		Mode:    f.Mode,
		Text:    f.Text,
		Link:    f.Link,
		HasFile: f.File != nil,
	}.Validate()
	if err != nil {
		return &ValidationError{Field: string(f.Mode), Message: err.Error()}
	}
	return nil
}

type Submission struct {
	ID              uint       `json:"id"`
	AssignmentID    uint       `json:"assignment_id"`
	AssignmentTitle string     `json:"assignment_title"`
	StudentID       uint       `json:"student_id"`
	StudentName     string     `json:"student_name"`
	Mode            string     `json:"mode"`
	SubmissionText  string     `json:"submission_text,omitempty"`
	DocumentURL     string     `json:"document_url,omitempty"`
	SubmissionLink  string     `json:"submission_link,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	Grade           *float64   `json:"grade"`
	Feedback        string     `json:"feedback"`
	GradedAt        *time.Time `json:"graded_at"`
}

func (f *SubmissionForm) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	if err := w.WriteField("assignment_id", strconv.FormatUint(uint64(f.AssignmentID), 10)); err != nil {
		return nil, "", err
	}
	switch f.Mode {
	case coursework.ModeText:
		if err := w.WriteField("submission_text", f.Text); err != nil {
			return nil, "", err
		}
	case coursework.ModeLink:
		link, err := coursework.NormalizeLink(f.Link)
		if err != nil {
			return nil, "", err
		}
		if err := w.WriteField("submission_link", link); err != nil {
			return nil, "", err
		}
	case coursework.ModeFile:
		name := f.FileName
		if name == "" {
			name = "document"
		}
		part, err := w.CreateFormFile("document", name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, f.File); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

// Submit 本地校验通过后以 multipart 提交，校验失败不发请求
func (c *Client) Submit(ctx context.Context, form *SubmissionForm) (*Submission, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	body, contentType, err := form.encode()
	if err != nil {
		return nil, errors.Wrap(err, "encoding submission")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/submissions", body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", contentType)

	var sub Submission
	if err := c.send(req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
