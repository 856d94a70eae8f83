package coursework

const (
	MinProgress  = 0
	MaxProgress  = 100
	ProgressStep = 10
)

func ValidProgress(p int) bool {
	return p >= MinProgress && p <= MaxProgress
}

func ClampProgress(p int) int {
	if p < MinProgress {
		return MinProgress
	}
	if p > MaxProgress {
		return MaxProgress
	}
	return p
}

// StepProgress 按步长调整进度并截断到 [0,100]
func StepProgress(current, steps int) int {
	return ClampProgress(current + steps*ProgressStep)
}
