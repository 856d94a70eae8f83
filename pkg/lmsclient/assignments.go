package lmsclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// DefaultCompletionTTL 本地“已完成”标记的保留时长
const DefaultCompletionTTL = 30 * time.Second

type Assignment struct {
	ID          uint       `json:"id"`
	UnitID      uint       `json:"unit_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	MaxScore    float64    `json:"max_score"`
	Completed   bool       `json:"completed"`
}

// AssignmentBoard 学生在一个单元下的作业列表。
// 完成状态以服务端为准，提交成功后的本地标记只在下次刷新前且未过期时生效。
type AssignmentBoard struct {
	client *Client
	unitID uint
	ttl    time.Duration
	now    func() time.Time

	mu          sync.Mutex
	assignments []Assignment
	overlay     map[uint]time.Time
}

func (c *Client) AssignmentBoard(unitID uint, ttl time.Duration) *AssignmentBoard {
	if ttl <= 0 {
		ttl = DefaultCompletionTTL
	}
	return &AssignmentBoard{
		client:  c,
		unitID:  unitID,
		ttl:     ttl,
		now:     time.Now,
		overlay: make(map[uint]time.Time),
	}
}

func (b *AssignmentBoard) Refresh(ctx context.Context) error {
	var list []Assignment
	if err := b.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/student/units/%d/assignments", b.unitID), nil, &list); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.assignments = list
	b.overlay = make(map[uint]time.Time)
	return nil
}

func (b *AssignmentBoard) Assignments() []Assignment {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Assignment, len(b.assignments))
	for i, a := range b.assignments {
		a.Completed = a.Completed || b.markedLocked(a.ID)
		out[i] = a
	}
	return out
}

func (b *AssignmentBoard) Completed(assignmentID uint) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.assignments {
		if a.ID == assignmentID && a.Completed {
			return true
		}
	}
	return b.markedLocked(assignmentID)
}

func (b *AssignmentBoard) markedLocked(id uint) bool {
	at, ok := b.overlay[id]
	if !ok {
		return false
	}
	if b.now().Sub(at) > b.ttl {
		delete(b.overlay, id)
		return false
	}
	return true
}

// Submit 提交成功后立即把该作业标记为已完成
func (b *AssignmentBoard) Submit(ctx context.Context, form *SubmissionForm) (*Submission, error) {
	sub, err := b.client.Submit(ctx, form)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.overlay[form.AssignmentID] = b.now()
	b.mu.Unlock()
	return sub, nil
}
