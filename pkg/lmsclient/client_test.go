package lmsclient

import (
	"context"
	"encoding/json"
	"io"
	"lms_backend/pkg/coursework"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    status,
		"message": message,
		"data":    data,
	})
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	session := NewSession()
	session.Set("token-1", 7, RoleTeacher)
	return New(srv.URL, session), &calls
}

func TestLoginStoresSession(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)
		writeJSON(w, http.StatusOK, "success", map[string]interface{}{
			"access_token": "fresh", "user_id": 3, "role": "student",
		})
	})
	c.Session().Clear()

	res, err := c.Login(context.Background(), "a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.AccessToken)
	assert.Equal(t, "fresh", c.Session().Token())
	assert.Equal(t, uint(3), c.Session().UserID())
	assert.False(t, c.Session().IsTeacher())
}

func TestForbiddenClearsSession(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(strconv.Itoa(status), func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
				writeJSON(w, status, "denied", nil)
			})
			invalidated := 0
			c.Session().OnInvalidate(func() { invalidated++ })

			_, err := c.Me(context.Background())
			apiErr, ok := AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, status, apiErr.Status)
			assert.Equal(t, "denied", apiErr.Message)
			assert.False(t, c.Session().Authenticated())
			assert.Equal(t, 1, invalidated)
		})
	}
}

func TestNotFoundKeepsSession(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, "Unit not found", nil)
	})
	_, err := c.Unit(context.Background(), 99)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNotFound())
	assert.True(t, c.Session().Authenticated())
}

func TestStaleTokenDoesNotClearNewSession(t *testing.T) {
	s := NewSession()
	s.Set("new", 1, RoleStudent)
	called := false
	s.OnInvalidate(func() { called = true })

	s.invalidate("old")
	assert.Equal(t, "new", s.Token())
	assert.False(t, called)
}

func TestCancelledContext(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, "success", nil)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Me(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestValidationDetails(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, "Validation failed", map[string]interface{}{
			"details": map[string]string{"video_url": "Invalid YouTube URL"},
		})
	})
	err := c.Enroll(context.Background(), 1)
	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid YouTube URL", apiErr.Details["video_url"])
}

func TestChangePasswordTooShort(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, "success", nil)
	})
	err := c.ChangePassword(context.Background(), "a@example.com", "old-pass", "12345")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestSubmissionSendsOnlySelectedField(t *testing.T) {
	tests := []struct {
		name    string
		form    SubmissionForm
		present string
	}{
		{"text", SubmissionForm{AssignmentID: 4, Mode: coursework.ModeText, Text: "my answer", Link: "https://ignored.example"}, "submission_text"},
		{"link", SubmissionForm{AssignmentID: 4, Mode: coursework.ModeLink, Text: "ignored", Link: "https://docs.example.com/a"}, "submission_link"},
		{"file", SubmissionForm{AssignmentID: 4, Mode: coursework.ModeFile, Text: "ignored", FileName: "a.pdf", File: strings.NewReader("%PDF-1.4")}, "document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseMultipartForm(1<<20))
				assert.Equal(t, "4", r.FormValue("assignment_id"))

				fields := map[string]bool{}
				for k := range r.MultipartForm.Value {
					fields[k] = true
				}
				for k := range r.MultipartForm.File {
					fields[k] = true
				}
				assert.Equal(t, map[string]bool{"assignment_id": true, tt.present: true}, fields)
				writeJSON(w, http.StatusCreated, "success", map[string]interface{}{"id": 1, "assignment_id": 4, "mode": tt.name})
			})
			sub, err := c.Submit(context.Background(), &tt.form)
			require.NoError(t, err)
			assert.Equal(t, tt.name, sub.Mode)
		})
	}
}

func TestSubmissionValidationMessages(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, "success", nil)
	})

	_, err := c.Submit(context.Background(), &SubmissionForm{AssignmentID: 1, Mode: coursework.ModeText, Text: "  \t"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Please provide a submission", ve.Message)

	_, err = c.Submit(context.Background(), &SubmissionForm{AssignmentID: 1, Mode: coursework.ModeLink, Link: "not-a-url"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Please enter a valid URL", ve.Message)

	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestSubmissionNormalizesLink(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "http://example.com/", r.FormValue("submission_link"))
		writeJSON(w, http.StatusCreated, "success", map[string]interface{}{"id": 1, "assignment_id": 4, "mode": "link"})
	})
	_, err := c.Submit(context.Background(), &SubmissionForm{AssignmentID: 4, Mode: coursework.ModeLink, Link: "http:example.com"})
	require.NoError(t, err)
}

func TestAssignmentBoardOverlay(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/student/units/2/assignments":
			writeJSON(w, http.StatusOK, "success", []map[string]interface{}{
				{"id": 10, "unit_id": 2, "title": "Essay", "completed": false},
				{"id": 11, "unit_id": 2, "title": "Quiz", "completed": true},
			})
		case "/api/submissions":
			io.Copy(io.Discard, r.Body)
			writeJSON(w, http.StatusCreated, "success", map[string]interface{}{"id": 5, "assignment_id": 10})
		}
	})

	board := c.AssignmentBoard(2, time.Minute)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	board.now = func() time.Time { return now }

	require.NoError(t, board.Refresh(context.Background()))
	assert.False(t, board.Completed(10))
	assert.True(t, board.Completed(11))

	_, err := board.Submit(context.Background(), &SubmissionForm{AssignmentID: 10, Mode: coursework.ModeText, Text: "done"})
	require.NoError(t, err)
	assert.True(t, board.Completed(10))
	assert.True(t, board.Assignments()[0].Completed)

	// 过期后回到服务端状态
	now = now.Add(2 * time.Minute)
	assert.False(t, board.Completed(10))

	// 刷新丢弃本地标记
	now = now.Add(-2 * time.Minute)
	_, err = board.Submit(context.Background(), &SubmissionForm{AssignmentID: 10, Mode: coursework.ModeText, Text: "again"})
	require.NoError(t, err)
	require.NoError(t, board.Refresh(context.Background()))
	assert.False(t, board.Completed(10))
}
