// Package coursework 存放服务端与客户端共用的课程业务规则：
// 成绩字段上限、总分计算、作业提交方式校验以及学习进度步进。
package coursework

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ScoreField 单元成绩的组成字段
type ScoreField string

const (
	AssignmentScore ScoreField = "assignment_score"
	CatScore        ScoreField = "cat_score"
	ExamScore       ScoreField = "exam_score"
)

// MaxTotal 三项成绩上限之和
const MaxTotal = 100.0

var scoreMax = map[ScoreField]float64{
	AssignmentScore: 10,
	CatScore:        20,
	ExamScore:       70,
}

// ScoreFields 按展示顺序返回全部成绩字段
func ScoreFields() []ScoreField {
	return []ScoreField{AssignmentScore, CatScore, ExamScore}
}

func (f ScoreField) Valid() bool {
	_, ok := scoreMax[f]
	return ok
}

// Max 返回字段允许的最大值，未知字段返回 0
func (f ScoreField) Max() float64 {
	return scoreMax[f]
}

// ScoreError 成绩校验失败
type ScoreError struct {
	Field   ScoreField
	Message string
}

func (e *ScoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ParseScoreField(s string) (ScoreField, error) {
	f := ScoreField(s)
	if !f.Valid() {
		return "", &ScoreError{Field: f, Message: "unknown score field"}
	}
	return f, nil
}

// Check 校验数值是有限数且位于 [0, max] 区间
func (f ScoreField) Check(v float64) error {
	if !f.Valid() {
		return &ScoreError{Field: f, Message: "unknown score field"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ScoreError{Field: f, Message: "must be a finite number"}
	}
	if v < 0 || v > f.Max() {
		return &ScoreError{Field: f, Message: fmt.Sprintf("must be between 0 and %g", f.Max())}
	}
	return nil
}

// ParseScore 解析输入框中的原始文本并做范围校验
func ParseScore(f ScoreField, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ScoreError{Field: f, Message: "a number is required"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ScoreError{Field: f, Message: "must be a number"}
	}
	if err := f.Check(v); err != nil {
		return 0, err
	}
	return v, nil
}

// Scores 一名学生在一个单元中的三项成绩，nil 表示尚未录入
type Scores struct {
	Assignment *float64 `json:"assignment_score"`
	CAT        *float64 `json:"cat_score"`
	Exam       *float64 `json:"exam_score"`
}

func (s Scores) Get(f ScoreField) *float64 {
	switch f {
	case AssignmentScore:
		return s.Assignment
	case CatScore:
		return s.CAT
	case ExamScore:
		return s.Exam
	}
	return nil
}

func (s *Scores) Set(f ScoreField, v *float64) {
	switch f {
	case AssignmentScore:
		s.Assignment = v
	case CatScore:
		s.CAT = v
	case ExamScore:
		s.Exam = v
	}
}

// Total 总分百分比。上限之和恰为 100，因此结果等于三项之和
func (s Scores) Total() float64 {
	sum := value(s.Assignment) + value(s.CAT) + value(s.Exam)
	return sum / MaxTotal * 100
}

// Percent 保留一位小数的百分比文本，如 "74.0%"
func (s Scores) Percent() string {
	return FormatPercent(s.Total())
}

func FormatPercent(total float64) string {
	return strconv.FormatFloat(total, 'f', 1, 64) + "%"
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// Float 返回指向 v 副本的指针
func Float(v float64) *float64 {
	return &v
}
