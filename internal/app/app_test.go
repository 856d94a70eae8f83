package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"lms_backend/internal/config"
	"lms_backend/internal/repository"
	"lms_backend/pkg/coursework"
	"lms_backend/pkg/database"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (r apiResponse) decode(t *testing.T, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Data, v))
}

type testServer struct {
	t   *testing.T
	app *App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Database:  config.DatabaseConfig{Driver: "sqlite"},
		JWT:       config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir(), MaxUploadMB: 1},
		RateLimit: config.RateLimitConfig{MaxRequests: 100000, WindowMinutes: 1},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return &testServer{t: t, app: Build(cfg, db, nil)}
}

func (s *testServer) serve(req *http.Request, token string) (int, apiResponse) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w.Code, resp
}

func (s *testServer) call(method, path, token string, body interface{}) (int, apiResponse) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.serve(req, token)
}

type account struct {
	Token string `json:"access_token"`
	ID    uint   `json:"user_id"`
	Role  string `json:"role"`
}

func (s *testServer) register(name string, teacher bool) account {
	s.t.Helper()
	path := "/api/register"
	if teacher {
		path = "/api/teacher/register"
	}
	status, resp := s.call(http.MethodPost, path, "", gin.H{
		"username": name,
		"email":    name + "@example.com",
		"password": "secret123",
		"bio":      name + " bio",
	})
	require.Equal(s.t, http.StatusCreated, status, resp.Message)
	var acc account
	resp.decode(s.t, &acc)
	return acc
}

func (s *testServer) createUnit(teacher account, title, category string) uint {
	s.t.Helper()
	status, resp := s.call(http.MethodPost, "/api/units/create", teacher.Token, gin.H{
		"title":       title,
		"description": title + " description",
		"category":    category,
		"video_url":   "https://www.youtube.com/watch?v=abc",
		"start_date":  "2024-01-01",
		"end_date":    "2024-03-01",
	})
	require.Equal(s.t, http.StatusCreated, status, resp.Message)
	var unit struct {
		ID uint `json:"id"`
	}
	resp.decode(s.t, &unit)
	return unit.ID
}

func (s *testServer) enroll(student account, unitID uint) {
	s.t.Helper()
	status, resp := s.call(http.MethodPost, "/api/enrollments", student.Token, gin.H{"unit_id": unitID})
	require.Equal(s.t, http.StatusCreated, status, resp.Message)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	student := s.register("alice", false)
	assert.Equal(t, "student", student.Role)
	assert.NotEmpty(t, student.Token)

	status, _ := s.call(http.MethodPost, "/api/register", "", gin.H{
		"username": "alice2", "email": "ALICE@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.call(http.MethodPost, "/api/register", "", gin.H{
		"username": "alice", "email": "other@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = s.call(http.MethodPost, "/api/register", "", gin.H{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp := s.call(http.MethodPost, "/api/login", "", gin.H{"email": "alice@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, status)
	var acc account
	resp.decode(t, &acc)
	assert.Equal(t, student.ID, acc.ID)

	status, _ = s.call(http.MethodPost, "/api/login", "", gin.H{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)

	// 学生账号不能走教师登录
	status, _ = s.call(http.MethodPost, "/api/teacher/login", "", gin.H{"email": "alice@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusNotFound, status)

	teacher := s.register("tess", true)
	assert.Equal(t, "teacher", teacher.Role)
	status, _ = s.call(http.MethodPost, "/api/teacher/login", "", gin.H{"email": "tess@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusOK, status)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	student := s.register("alice", false)

	status, _ := s.call(http.MethodGet, "/api/me", student.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.call(http.MethodPost, "/api/logout", student.Token, nil)
	require.Equal(t, http.StatusOK, status)

	status, resp := s.call(http.MethodGet, "/api/me", student.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token has been revoked", resp.Message)

	status, resp = s.call(http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token is missing", resp.Message)
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	student := s.register("alice", false)
	path := fmt.Sprintf("/api/change-password/%d", student.ID)

	status, _ := s.call(http.MethodPatch, path, student.Token, gin.H{
		"email": "other@example.com", "current_password": "secret123", "new_password": "newsecret",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.call(http.MethodPatch, path, student.Token, gin.H{
		"email": "alice@example.com", "current_password": "secret123", "new_password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.call(http.MethodPatch, path, student.Token, gin.H{
		"email": "alice@example.com", "current_password": "secret123", "new_password": "newsecret",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = s.call(http.MethodPost, "/api/login", "", gin.H{"email": "alice@example.com", "password": "newsecret"})
	assert.Equal(t, http.StatusOK, status)

	other := s.register("bob", false)
	status, _ = s.call(http.MethodPatch, path, other.Token, gin.H{
		"email": "alice@example.com", "current_password": "newsecret", "new_password": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCreateUnitValidation(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("tess", true)
	student := s.register("alice", false)

	status, resp := s.call(http.MethodPost, "/api/units/create", teacher.Token, gin.H{
		"title": "Go", "description": "d", "category": "Programming", "video_url": "https://vimeo.com/1",
	})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	var body struct {
		Details map[string]string `json:"details"`
	}
	resp.decode(t, &body)
	assert.Equal(t, "Invalid YouTube URL", body.Details["video_url"])

	status, resp = s.call(http.MethodPost, "/api/units/create", teacher.Token, gin.H{"description": "d"})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	resp.decode(t, &body)
	assert.Equal(t, "title is required", body.Details["title"])

	status, _ = s.call(http.MethodPost, "/api/units/create", teacher.Token, gin.H{
		"title": "Go", "description": "d", "category": "Programming", "video_url": "https://youtu.be/x",
		"start_date": "2024-05-01", "end_date": "2024-04-01",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = s.call(http.MethodPost, "/api/units/create", student.Token, gin.H{
		"title": "Go", "description": "d", "category": "Programming", "video_url": "https://youtu.be/x",
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUnitPagination(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("tess", true)
	for _, title := range []string{"Charlie", "Alpha", "Bravo"} {
		s.createUnit(teacher, title, "Programming")
	}
	s.createUnit(teacher, "Delta", "Data Science")

	var page struct {
		Units []struct {
			Title   string `json:"title"`
			Teacher struct {
				Name string `json:"name"`
			} `json:"teacher"`
		} `json:"units"`
		Total       int64 `json:"total"`
		Pages       int   `json:"pages"`
		CurrentPage int   `json:"current_page"`
		HasNext     bool  `json:"has_next"`
		HasPrev     bool  `json:"has_prev"`
	}

	status, resp := s.call(http.MethodGet, "/api/units?per_page=2", "", nil)
	require.Equal(t, http.StatusOK, status)
	resp.decode(t, &page)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)
	require.Len(t, page.Units, 2)
	assert.Equal(t, "Alpha", page.Units[0].Title)
	assert.Equal(t, "tess", page.Units[0].Teacher.Name)

	status, resp = s.call(http.MethodGet, "/api/units?per_page=2&page=2", "", nil)
	require.Equal(t, http.StatusOK, status)
	resp.decode(t, &page)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
	assert.Equal(t, "Charlie", page.Units[0].Title)

	status, resp = s.call(http.MethodGet, "/api/units?page=0", "", nil)
	require.Equal(t, http.StatusOK, status)
	resp.decode(t, &page)
	assert.Equal(t, 1, page.CurrentPage)

	status, resp = s.call(http.MethodGet, "/api/units/category/Programming?sort_by=title", "", nil)
	require.Equal(t, http.StatusOK, status)
	resp.decode(t, &page)
	assert.Equal(t, int64(3), page.Total)

	status, _ = s.call(http.MethodGet, "/api/units?page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, resp = s.call(http.MethodGet, "/api/units/categories", "", nil)
	require.Equal(t, http.StatusOK, status)
	var cats struct {
		Categories []string `json:"categories"`
	}
	resp.decode(t, &cats)
	assert.ElementsMatch(t, []string{"Programming", "Data Science"}, cats.Categories)
}

func TestEnrollmentAndProgress(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("tess", true)
	student := s.register("alice", false)
	other := s.register("bob", false)
	unitID := s.createUnit(teacher, "Go", "Programming")

	status, _ := s.call(http.MethodPost, "/api/enrollments", student.Token, gin.H{"unit_id": 999})
	assert.Equal(t, http.StatusNotFound, status)

	s.enroll(student, unitID)
	status, _ = s.call(http.MethodPost, "/api/enrollments", student.Token, gin.H{"unit_id": unitID})
	assert.Equal(t, http.StatusConflict, status)

	status, resp := s.call(http.MethodGet, fmt.Sprintf("/api/units/%d", unitID), student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var detail struct {
		IsEnrolled    bool  `json:"is_enrolled"`
		TotalEnrolled int64 `json:"total_enrolled"`
	}
	resp.decode(t, &detail)
	assert.True(t, detail.IsEnrolled)
	assert.Equal(t, int64(1), detail.TotalEnrolled)

	progressPath := fmt.Sprintf("/api/student/units/%d/%d/progress", student.ID, unitID)
	status, resp = s.call(http.MethodPut, progressPath, student.Token, gin.H{"progress": 50})
	require.Equal(t, http.StatusOK, status)
	var p struct {
		Progress int `json:"progress"`
	}
	resp.decode(t, &p)
	assert.Equal(t, 50, p.Progress)

	for _, bad := range []interface{}{150, -10, 12.5, "x"} {
		status, _ = s.call(http.MethodPut, progressPath, student.Token, gin.H{"progress": bad})
		assert.Equal(t, http.StatusBadRequest, status, "%v", bad)
	}

	// 只能修改自己的进度
	status, _ = s.call(http.MethodPut, progressPath, other.Token, gin.H{"progress": 10})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = s.call(http.MethodPut, fmt.Sprintf("/api/student/units/%d/%d/progress", other.ID, unitID), other.Token, gin.H{"progress": 10})
	assert.Equal(t, http.StatusNotFound, status)

	status, resp = s.call(http.MethodGet, "/api/units/progress", student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var inProgress []struct {
		ID       uint `json:"id"`
		Progress int  `json:"progress"`
	}
	resp.decode(t, &inProgress)
	require.Len(t, inProgress, 1)
	assert.Equal(t, 50, inProgress[0].Progress)

	status, _ = s.call(http.MethodDelete, fmt.Sprintf("/api/student/units/%d/%d", student.ID, unitID), student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = s.call(http.MethodDelete, fmt.Sprintf("/api/student-enrolled-units/%d/%d", student.ID, unitID), student.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, resp = s.call(http.MethodGet, fmt.Sprintf("/api/student/units/%d", student.ID), student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(resp.Data))
}

func TestGradeBook(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("tess", true)
	otherTeacher := s.register("olga", true)
	student := s.register("alice", false)
	unitID := s.createUnit(teacher, "Go", "Programming")
	s.enroll(student, unitID)

	status, resp := s.call(http.MethodGet, fmt.Sprintf("/api/teacher/units/%d/students", unitID), teacher.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var rows []struct {
		StudentID    uint     `json:"student_id"`
		FullName     string   `json:"full_name"`
		ExamScore    *float64 `json:"exam_score"`
		TotalPercent string   `json:"total_percent"`
	}
	resp.decode(t, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].FullName)
	assert.Nil(t, rows[0].ExamScore)
	assert.Equal(t, "0.0%", rows[0].TotalPercent)

	gradePath := fmt.Sprintf("/api/teacher/students/%d/grades", student.ID)

	status, resp = s.call(http.MethodPut, gradePath, teacher.Token, gin.H{"unit_id": unitID, "exam_score": 71})
	require.Equal(t, http.StatusUnprocessableEntity, status)
	var details struct {
		Details map[string]string `json:"details"`
	}
	resp.decode(t, &details)
	assert.Contains(t, details.Details, "exam_score")

	status, _ = s.call(http.MethodPut, gradePath, teacher.Token, gin.H{"unit_id": unitID})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = s.call(http.MethodPut, gradePath, otherTeacher.Token, gin.H{"unit_id": unitID, "cat_score": 10})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = s.call(http.MethodPut, gradePath, student.Token, gin.H{"unit_id": unitID, "cat_score": 10})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.call(http.MethodPut, gradePath, teacher.Token, gin.H{"unit_id": unitID, "assignment_score": 6, "cat_score": 16})
	require.Equal(t, http.StatusOK, status)

	// 部分更新保留已有字段
	status, resp = s.call(http.MethodPut, gradePath, teacher.Token, gin.H{"unit_id": unitID, "exam_score": 52})
	require.Equal(t, http.StatusOK, status)
	var row struct {
		AssignmentScore float64 `json:"assignment_score"`
		CatScore        float64 `json:"cat_score"`
		ExamScore       float64 `json:"exam_score"`
		Total           float64 `json:"total"`
		TotalPercent    string  `json:"total_percent"`
	}
	resp.decode(t, &row)
	assert.Equal(t, 6.0, row.AssignmentScore)
	assert.Equal(t, 16.0, row.CatScore)
	assert.Equal(t, 52.0, row.ExamScore)
	assert.Equal(t, "74.0%", row.TotalPercent)

	status, resp = s.call(http.MethodGet, fmt.Sprintf("/api/student/results/%d", student.ID), student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var results struct {
		Results []struct {
			UnitTitle string `json:"unit_title"`
		} `json:"results"`
	}
	resp.decode(t, &results)
	require.Len(t, results.Results, 1)
	assert.Equal(t, "Go", results.Results[0].UnitTitle)

	status, resp = s.call(http.MethodGet, fmt.Sprintf("/api/student/dashboard/%d", student.ID), student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var dash struct {
		EnrolledCourses int     `json:"enrolledCourses"`
		AverageScore    float64 `json:"averageScore"`
	}
	resp.decode(t, &dash)
	assert.Equal(t, 1, dash.EnrolledCourses)
	assert.Equal(t, 74.0, dash.AverageScore)
}

func TestGradeUpdatesOnDifferentFieldsDoNotOverwrite(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("tess", true)
	student := s.register("alice", false)
	unitID := s.createUnit(teacher, "Go", "Programming")
	s.enroll(student, unitID)

	gradePath := fmt.Sprintf("/api/teacher/students/%d/grades", student.ID)
	status, _ := s.call(http.MethodPut, gradePath, teacher.Token, gin.H{"unit_id": unitID, "assignment_score": 6})
	require.Equal(t, http.StatusOK, status)

	// 两个请求先后读到同一行，再分别写入不同字段
	ctx := context.Background()
	repo := repository.NewEnrollmentRepository(s.app.DB)
	first, err := repo.Find(ctx, student.ID, unitID)
	require.NoError(t, err)
	second, err := repo.Find(ctx, student.ID, unitID)
	require.NoError(t, err)

	_, err = repo.SaveScores(ctx, first, coursework.Scores{CAT: coursework.Float(16)}, time.Now())
	require.NoError(t, err)
	_, err = repo.SaveScores(ctx, second, coursework.Scores{Exam: coursework.Float(52)}, time.Now())
	require.NoError(t, err)
	require.NotNil(t, second.CatScore)
	assert.Equal(t, 16.0, *second.CatScore)

	// 通过接口交错提交两个字段
	status, _ = s.call(http.MethodPut, gradePath, teacher.Token, gin.H{"unit_id": unitID, "exam_score": 50})
	require.Equal(t, http.StatusOK, status)
	status, resp := s.call(http.MethodPut, gradePath, teacher.Token, gin.H{"unit_id": unitID, "cat_score": 18})
	require.Equal(t, http.StatusOK, status)
	var row struct {
		AssignmentScore float64 `json:"assignment_score"`
		CatScore        float64 `json:"cat_score"`
		ExamScore       float64 `json:"exam_score"`
		TotalPercent    string  `json:"total_percent"`
	}
	resp.decode(t, &row)
	assert.Equal(t, 6.0, row.AssignmentScore)
	assert.Equal(t, 18.0, row.CatScore)
	assert.Equal(t, 50.0, row.ExamScore)
	assert.Equal(t, "74.0%", row.TotalPercent)

	status, resp = s.call(http.MethodGet, fmt.Sprintf("/api/teacher/units/%d/students", unitID), teacher.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var rows []struct {
		AssignmentScore *float64 `json:"assignment_score"`
		CatScore        *float64 `json:"cat_score"`
		ExamScore       *float64 `json:"exam_score"`
	}
	resp.decode(t, &rows)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].AssignmentScore)
	require.NotNil(t, rows[0].CatScore)
	require.NotNil(t, rows[0].ExamScore)
	assert.Equal(t, 6.0, *rows[0].AssignmentScore)
	assert.Equal(t, 18.0, *rows[0].CatScore)
	assert.Equal(t, 50.0, *rows[0].ExamScore)
}

func TestSubmitLinkIsNormalized(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("tess", true)
	student := s.register("alice", false)
	unitID := s.createUnit(teacher, "Go", "Programming")
	s.enroll(student, unitID)

	status, resp := s.call(http.MethodPost, "/api/assignments", teacher.Token, gin.H{
		"unit_id": unitID, "title": "Essay", "due_date": "2024-02-01 23:59", "max_score": 10,
	})
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var assignment struct {
		ID uint `json:"id"`
	}
	resp.decode(t, &assignment)

	status, resp = s.serve(multipartSubmission(t, map[string]string{
		"assignment_id": fmt.Sprint(assignment.ID), "submission_link": "http:example.com",
	}), student.Token)
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var sub struct {
		SubmissionLink string `json:"submission_link"`
	}
	resp.decode(t, &sub)
	assert.Equal(t, "http://example.com/", sub.SubmissionLink)
}

func multipartSubmission(t *testing.T, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/submissions", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestSubmissionFlow(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("tess", true)
	student := s.register("alice", false)
	unitID := s.createUnit(teacher, "Go", "Programming")

	status, resp := s.call(http.MethodPost, "/api/assignments", teacher.Token, gin.H{
		"unit_id": unitID, "title": "Essay", "due_date": "2024-02-01 23:59", "max_score": 10,
	})
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var assignment struct {
		ID uint `json:"id"`
	}
	resp.decode(t, &assignment)
	aid := fmt.Sprint(assignment.ID)

	status, _ = s.serve(multipartSubmission(t, map[string]string{"assignment_id": aid, "submission_text": "answer"}), student.Token)
	assert.Equal(t, http.StatusForbidden, status)

	s.enroll(student, unitID)

	status, resp = s.serve(multipartSubmission(t, map[string]string{"assignment_id": aid, "submission_text": "   "}), student.Token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please provide a submission", resp.Message)

	status, resp = s.serve(multipartSubmission(t, map[string]string{"assignment_id": aid, "submission_link": "not-a-url"}), student.Token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please enter a valid URL", resp.Message)

	status, _ = s.serve(multipartSubmission(t, map[string]string{
		"assignment_id": aid, "submission_text": "answer", "submission_link": "https://example.com",
	}), student.Token)
	assert.Equal(t, http.StatusBadRequest, status)

	assignmentsPath := fmt.Sprintf("/api/student/units/%d/assignments", unitID)
	var list []struct {
		ID        uint `json:"id"`
		Completed bool `json:"completed"`
	}
	status, resp = s.call(http.MethodGet, assignmentsPath, student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	resp.decode(t, &list)
	require.Len(t, list, 1)
	assert.False(t, list[0].Completed)

	status, resp = s.serve(multipartSubmission(t, map[string]string{"assignment_id": aid, "submission_text": "answer"}), student.Token)
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var sub struct {
		ID   uint   `json:"id"`
		Mode string `json:"mode"`
	}
	resp.decode(t, &sub)
	assert.Equal(t, "text", sub.Mode)

	status, resp = s.call(http.MethodGet, assignmentsPath, student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	resp.decode(t, &list)
	assert.True(t, list[0].Completed)

	gradePath := fmt.Sprintf("/api/submissions/%d/grade", sub.ID)
	status, _ = s.call(http.MethodPost, gradePath, teacher.Token, gin.H{"grade": 11, "feedback": "too high"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = s.call(http.MethodPost, gradePath, teacher.Token, gin.H{"grade": 8, "feedback": "good"})
	require.Equal(t, http.StatusOK, status)

	status, resp = s.call(http.MethodGet, "/api/student/submissions", student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var mine []struct {
		Grade    *float64 `json:"grade"`
		Feedback string   `json:"feedback"`
	}
	resp.decode(t, &mine)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Grade)
	assert.Equal(t, 8.0, *mine[0].Grade)
	assert.Equal(t, "good", mine[0].Feedback)

	status, resp = s.call(http.MethodGet, fmt.Sprintf("/api/teacher/units/%d/submissions", unitID), teacher.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var subs []struct {
		StudentName string `json:"student_name"`
	}
	resp.decode(t, &subs)
	require.Len(t, subs, 1)
	assert.Equal(t, "alice", subs[0].StudentName)
}

func TestProfileLifecycle(t *testing.T) {
	s := newTestServer(t)
	student := s.register("alice", false)
	path := fmt.Sprintf("/api/profile/%d", student.ID)

	status, _ := s.call(http.MethodGet, path, student.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, resp := s.call(http.MethodPost, path, student.Token, nil)
	require.Equal(t, http.StatusCreated, status, resp.Message)
	var profile struct {
		FullName             string `json:"fullName"`
		Theme                string `json:"theme"`
		Language             string `json:"language"`
		NotificationsEnabled bool   `json:"notifications_enabled"`
	}
	resp.decode(t, &profile)
	assert.Equal(t, "light", profile.Theme)
	assert.Equal(t, "en", profile.Language)
	assert.True(t, profile.NotificationsEnabled)

	status, _ = s.call(http.MethodPost, path, student.Token, nil)
	assert.Equal(t, http.StatusConflict, status)

	status, resp = s.call(http.MethodPut, path, student.Token, gin.H{
		"fullName": "Alice A", "theme": "dark", "notifications_enabled": false,
	})
	require.Equal(t, http.StatusOK, status)
	resp.decode(t, &profile)
	assert.Equal(t, "Alice A", profile.FullName)
	assert.Equal(t, "dark", profile.Theme)
	assert.False(t, profile.NotificationsEnabled)

	status, resp = s.call(http.MethodGet, path, student.Token, nil)
	require.Equal(t, http.StatusOK, status)
	resp.decode(t, &profile)
	assert.Equal(t, "dark", profile.Theme)
	assert.False(t, profile.NotificationsEnabled)
}

func TestTeacherViews(t *testing.T) {
	s := newTestServer(t)
	teacher := s.register("tess", true)
	student := s.register("alice", false)
	unitID := s.createUnit(teacher, "Go", "Programming")
	s.enroll(student, unitID)

	status, resp := s.call(http.MethodGet, "/api/teacher/", "", nil)
	require.Equal(t, http.StatusOK, status)
	var featured []struct {
		ID            uint  `json:"id"`
		TotalUnits    int64 `json:"total_units"`
		TotalStudents int64 `json:"total_students"`
	}
	resp.decode(t, &featured)
	require.Len(t, featured, 1)
	assert.Equal(t, teacher.ID, featured[0].ID)

	status, _ = s.call(http.MethodGet, fmt.Sprintf("/api/teacher/%d", teacher.ID), "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.call(http.MethodGet, fmt.Sprintf("/api/teacher/%d", student.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, resp = s.call(http.MethodGet, fmt.Sprintf("/api/teacher/dashboard/%d", teacher.ID), teacher.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var dash struct {
		TotalUnits    int64 `json:"totalUnits"`
		TotalStudents int64 `json:"totalStudents"`
	}
	resp.decode(t, &dash)
	assert.Equal(t, int64(1), dash.TotalUnits)
	assert.Equal(t, int64(1), dash.TotalStudents)

	status, resp = s.call(http.MethodGet, fmt.Sprintf("/api/teacher/enrolled-students/%d", teacher.ID), teacher.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var enrolled struct {
		Students []struct {
			StudentName string `json:"student_name"`
		} `json:"enrolled_students"`
	}
	resp.decode(t, &enrolled)
	require.Len(t, enrolled.Students, 1)
	assert.Equal(t, "alice", enrolled.Students[0].StudentName)

	status, _ = s.call(http.MethodGet, fmt.Sprintf("/api/teacher/%d/units", teacher.ID), teacher.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.call(http.MethodGet, fmt.Sprintf("/api/teacher/%d/units", teacher.ID+100), teacher.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestPublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, resp := s.call(http.MethodGet, "/api/testimonials", "", nil)
	require.Equal(t, http.StatusOK, status)
	var testimonials []struct {
		Name   string  `json:"name"`
		Rating float64 `json:"rating"`
	}
	resp.decode(t, &testimonials)
	require.Len(t, testimonials, 2)
	assert.Equal(t, "John Doe", testimonials[0].Name)

	status, _ = s.call(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
}
