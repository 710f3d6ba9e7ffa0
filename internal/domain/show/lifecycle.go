package show

import (
	"fmt"
	"time"
)

// Transition は大会の状態遷移操作を表す
type Transition string

const (
	TransitionSchedule Transition = "schedule"
	TransitionStart    Transition = "start"
	TransitionComplete Transition = "complete"
	TransitionCancel   Transition = "cancel"
)

// transitions は遷移操作ごとの許可される遷移元と遷移先
var transitions = map[Transition]struct {
	from []Status
	to   Status
}{
	TransitionSchedule: {from: []Status{StatusDraft}, to: StatusScheduled},
	TransitionStart:    {from: []Status{StatusDraft, StatusScheduled}, to: StatusInProgress},
	TransitionComplete: {from: []Status{StatusInProgress}, to: StatusCompleted},
	TransitionCancel:   {from: []Status{StatusDraft, StatusScheduled, StatusInProgress}, to: StatusCancelled},
}

// CanTransition は from の状態から t の遷移が許可されているかを返す
func CanTransition(from Status, t Transition) bool {
	rule, ok := transitions[t]
	if !ok {
		return false
	}
	for _, s := range rule.from {
		if s == from {
			return true
		}
	}
	return false
}

// IsTerminal は終端状態かを返す
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CheckTransition は現在の状態から t の遷移ができるかを検証する
func (s *Show) CheckTransition(t Transition) error {
	if !CanTransition(s.Status, t) {
		return fmt.Errorf("%w: %s から %s はできません", ErrIllegalTransition, s.Status, t)
	}
	return nil
}

func (s *Show) transition(t Transition) error {
	if err := s.CheckTransition(t); err != nil {
		return err
	}
	s.Status = transitions[t].to
	s.UpdatedAt = time.Now()
	return nil
}

// Schedule は下書きの大会を公開予定にする
func (s *Show) Schedule() error {
	return s.transition(TransitionSchedule)
}

// Start は大会を開始し、観客動員数を確定する
func (s *Show) Start(attendance int) error {
	if err := s.CheckTransition(TransitionStart); err != nil {
		return err
	}
	if attendance < 0 {
		return ErrInvalidAttendance
	}
	if err := s.CheckWinners(); err != nil {
		return err
	}
	if err := s.transition(TransitionStart); err != nil {
		return err
	}
	s.Attendance = &attendance
	return nil
}

// Complete は大会を終了し、各試合・セグメントの結果と大会全体の結果を凍結する
// items は試合・セグメントのIDをキーとする
func (s *Show) Complete(items map[string]ItemResult, results Results, at time.Time) error {
	if err := s.CheckTransition(TransitionComplete); err != nil {
		return err
	}
	if err := s.CheckWinners(); err != nil {
		return err
	}
	for i := range s.Matches {
		if r, ok := items[s.Matches[i].ID]; ok {
			r := r
			s.Matches[i].Result = &r
		}
	}
	for i := range s.Segments {
		if r, ok := items[s.Segments[i].ID]; ok {
			r := r
			s.Segments[i].Result = &r
		}
	}
	if err := s.transition(TransitionComplete); err != nil {
		return err
	}
	s.Results = &results
	completed := at
	s.CompletedAt = &completed
	return nil
}

// Cancel は終了前の大会を中止する
func (s *Show) Cancel() error {
	return s.transition(TransitionCancel)
}

// IsOverdue は開催日から grace を過ぎても開始されていない大会かを返す
func (s *Show) IsOverdue(now time.Time, grace time.Duration) bool {
	if s.Status != StatusDraft && s.Status != StatusScheduled {
		return false
	}
	return s.Date.Add(grace).Before(now)
}
