package lmsclient

import (
	"context"
	"fmt"
	"lms_backend/pkg/coursework"
	"net/http"
	"sync"
	"time"
)

type EnrolledUnit struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Teacher        string    `json:"teacher"`
	TeacherID      uint      `json:"teacher_id"`
	Progress       int       `json:"progress"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}

// ProgressTracker 学生已选单元及学习进度。进度按 10 步进，到达边界后不再发请求。
type ProgressTracker struct {
	client *Client

	mu    sync.Mutex
	units []EnrolledUnit
}

func (c *Client) ProgressTracker() *ProgressTracker {
	return &ProgressTracker{client: c}
}

func (t *ProgressTracker) Load(ctx context.Context) error {
	userID, err := t.client.requireUser()
	if err != nil {
		return err
	}
	var units []EnrolledUnit
	if err := t.client.do(ctx, http.MethodGet, fmt.Sprintf("/api/student/units/%d", userID), nil, &units); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.units = units
	return nil
}

func (t *ProgressTracker) Units() []EnrolledUnit {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]EnrolledUnit, len(t.units))
	copy(out, t.units)
	return out
}

func (t *ProgressTracker) Progress(unitID uint) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexOf(unitID); i >= 0 {
		return t.units[i].Progress, true
	}
	return 0, false
}

func (t *ProgressTracker) indexOf(unitID uint) int {
	for i := range t.units {
		if t.units[i].ID == unitID {
			return i
		}
	}
	return -1
}

func (t *ProgressTracker) CanIncrement(unitID uint) bool {
	p, ok := t.Progress(unitID)
	return ok && p < coursework.MaxProgress
}

func (t *ProgressTracker) CanDecrement(unitID uint) bool {
	p, ok := t.Progress(unitID)
	return ok && p > coursework.MinProgress
}

func (t *ProgressTracker) Increment(ctx context.Context, unitID uint) error {
	return t.step(ctx, unitID, 1)
}

func (t *ProgressTracker) Decrement(ctx context.Context, unitID uint) error {
	return t.step(ctx, unitID, -1)
}

// step 服务端确认后才更新本地进度
func (t *ProgressTracker) step(ctx context.Context, unitID uint, dir int) error {
	current, ok := t.Progress(unitID)
	if !ok {
		return ErrUnknownUnit
	}
	next := coursework.StepProgress(current, dir)
	if next == current {
		return nil
	}

	userID, err := t.client.requireUser()
	if err != nil {
		return err
	}
	var res struct {
		Progress int `json:"progress"`
	}
	path := fmt.Sprintf("/api/student/units/%d/%d/progress", userID, unitID)
	if err := t.client.do(ctx, http.MethodPut, path, map[string]int{"progress": next}, &res); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexOf(unitID); i >= 0 {
		t.units[i].Progress = res.Progress
	}
	return nil
}

// Unenroll 未确认时直接返回；服务端成功后才移除本地记录
func (t *ProgressTracker) Unenroll(ctx context.Context, unitID uint, confirmed bool) error {
	if !confirmed {
		return nil
	}
	userID, err := t.client.requireUser()
	if err != nil {
		return err
	}
	if err := t.client.do(ctx, http.MethodDelete, fmt.Sprintf("/api/student/units/%d/%d", userID, unitID), nil, nil); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexOf(unitID); i >= 0 {
		t.units = append(t.units[:i], t.units[i+1:]...)
	}
	return nil
}
