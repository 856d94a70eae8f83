package lmsclient

import (
	"context"
	"fmt"
	"lms_backend/pkg/coursework"
	"net/http"
	"sync"
)

type GradeRow struct {
	StudentID       uint     `json:"student_id"`
	FullName        string   `json:"full_name"`
	UnitID          uint     `json:"unit_id"`
	UnitTitle       string   `json:"unit_title"`
	AssignmentScore *float64 `json:"assignment_score"`
	CatScore        *float64 `json:"cat_score"`
	ExamScore       *float64 `json:"exam_score"`
}

func (r GradeRow) Scores() coursework.Scores {
	return coursework.Scores{Assignment: r.AssignmentScore, CAT: r.CatScore, Exam: r.ExamScore}
}

func (r *GradeRow) setScores(s coursework.Scores) {
	r.AssignmentScore = s.Assignment
	r.CatScore = s.CAT
	r.ExamScore = s.Exam
}

func (r GradeRow) Total() float64 {
	return r.Scores().Total()
}

// TotalPercent 如 "74.0%"
func (r GradeRow) TotalPercent() string {
	return r.Scores().Percent()
}

type cell struct {
	studentID uint
	field     coursework.ScoreField
}

// GradeBook 教师视角的单元成绩册。
// 编辑先在本地生效，最新一次编辑失败时回到服务端最后确认的值；同一单元格以最后一次编辑为准。
type GradeBook struct {
	client *Client
	unitID uint

	mu      sync.Mutex
	rows    []GradeRow
	seq     map[cell]uint64
	pending map[cell]bool
	// 服务端最后确认的值及对应的编辑序号
	confirmed    map[cell]*float64
	confirmedSeq map[cell]uint64
}

func (c *Client) GradeBook(unitID uint) *GradeBook {
	return &GradeBook{
		client:       c,
		unitID:       unitID,
		seq:          make(map[cell]uint64),
		pending:      make(map[cell]bool),
		confirmed:    make(map[cell]*float64),
		confirmedSeq: make(map[cell]uint64),
	}
}

func (g *GradeBook) Load(ctx context.Context) error {
	var rows []GradeRow
	if err := g.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/teacher/units/%d/students", g.unitID), nil, &rows); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows = rows
	for _, r := range rows {
		scores := r.Scores()
		for _, f := range coursework.ScoreFields() {
			key := cell{r.StudentID, f}
			g.confirmed[key] = scores.Get(f)
			g.confirmedSeq[key] = g.seq[key]
		}
	}
	return nil
}

func (g *GradeBook) Rows() []GradeRow {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]GradeRow, len(g.rows))
	copy(out, g.rows)
	return out
}

func (g *GradeBook) Row(studentID uint) (GradeRow, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if i := g.indexOf(studentID); i >= 0 {
		return g.rows[i], true
	}
	return GradeRow{}, false
}

// Pending 该单元格是否有尚未确认的编辑
func (g *GradeBook) Pending(studentID uint, field coursework.ScoreField) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending[cell{studentID, field}]
}

func (g *GradeBook) indexOf(studentID uint) int {
	for i := range g.rows {
		if g.rows[i].StudentID == studentID {
			return i
		}
	}
	return -1
}

// Edit 校验输入框的原始文本，通过后立即更新本地行并提交到服务端。
// 校验失败返回 *ValidationError 且不发请求。
func (g *GradeBook) Edit(ctx context.Context, studentID uint, field coursework.ScoreField, raw string) error {
	value, err := coursework.ParseScore(field, raw)
	if err != nil {
		msg := err.Error()
		if se, ok := err.(*coursework.ScoreError); ok {
			msg = se.Message
		}
		return &ValidationError{Field: string(field), Message: msg}
	}

	key := cell{studentID, field}

	g.mu.Lock()
	i := g.indexOf(studentID)
	if i < 0 {
		g.mu.Unlock()
		return ErrUnknownStudent
	}
	scores := g.rows[i].Scores()
	scores.Set(field, coursework.Float(value))
	g.rows[i].setScores(scores)
	g.seq[key]++
	mine := g.seq[key]
	g.pending[key] = true
	g.mu.Unlock()

	body := map[string]interface{}{
		"unit_id":     g.unitID,
		string(field): value,
	}
	var updated GradeRow
	err = g.client.do(ctx, http.MethodPut, fmt.Sprintf("/api/teacher/students/%d/grades", studentID), body, &updated)

	g.mu.Lock()
	defer g.mu.Unlock()
	latest := g.seq[key] == mine
	if latest {
		delete(g.pending, key)
	}

	if err != nil {
		// 较早请求的失败不影响更新的编辑
		if latest {
			g.show(studentID, field, g.confirmed[key])
		}
		return err
	}

	if mine > g.confirmedSeq[key] {
		v := updated.Scores().Get(field)
		if v == nil {
			v = coursework.Float(value)
		}
		g.confirmed[key] = v
		g.confirmedSeq[key] = mine
		// 更新的编辑仍在途时保留其乐观值
		if !g.pending[key] {
			g.show(studentID, field, v)
		}
	}
	return nil
}

func (g *GradeBook) show(studentID uint, field coursework.ScoreField, v *float64) {
	i := g.indexOf(studentID)
	if i < 0 {
		return
	}
	scores := g.rows[i].Scores()
	scores.Set(field, v)
	g.rows[i].setScores(scores)
}
