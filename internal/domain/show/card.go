package show

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/synful23/wrestling-simulator-sub000/internal/domain/rating"
)

// MatchType は試合形式を表す
type MatchType string

const (
	MatchTypeSingles      MatchType = "singles"
	MatchTypeTagTeam      MatchType = "tag_team"
	MatchTypeTripleThreat MatchType = "triple_threat"
	MatchTypeFatalFourWay MatchType = "fatal_four_way"
	MatchTypeBattleRoyal  MatchType = "battle_royal"
	MatchTypeHandicap     MatchType = "handicap"
)

// Outcome は試合の決着方法を表す
type Outcome string

const (
	OutcomePinfall          Outcome = "pinfall"
	OutcomeSubmission       Outcome = "submission"
	OutcomeKnockout         Outcome = "knockout"
	OutcomeDisqualification Outcome = "disqualification"
	OutcomeCountOut         Outcome = "count_out"
	OutcomeNoContest        Outcome = "no_contest"
	OutcomeTimeLimitDraw    Outcome = "time_limit_draw"
	OutcomeDoubleDQ         Outcome = "double_dq"
)

// Valid は既知の決着方法かを返す
func (o Outcome) Valid() bool {
	switch o {
	case OutcomePinfall, OutcomeSubmission, OutcomeKnockout, OutcomeDisqualification,
		OutcomeCountOut, OutcomeNoContest, OutcomeTimeLimitDraw, OutcomeDoubleDQ:
		return true
	}
	return false
}

// NoFinish は勝者なしで終わる決着方法かを返す
func (o Outcome) NoFinish() bool {
	return o == OutcomeNoContest || o == OutcomeTimeLimitDraw || o == OutcomeDoubleDQ
}

// SegmentType はセグメント種別を表す
type SegmentType string

const (
	SegmentTypePromo        SegmentType = "promo"
	SegmentTypeInterview    SegmentType = "interview"
	SegmentTypeBackstage    SegmentType = "backstage"
	SegmentTypeAngle        SegmentType = "angle"
	SegmentTypeVideoPackage SegmentType = "video_package"
)

// Valid は既知のセグメント種別かを返す
func (t SegmentType) Valid() bool {
	switch t {
	case SegmentTypePromo, SegmentTypeInterview, SegmentTypeBackstage, SegmentTypeAngle, SegmentTypeVideoPackage:
		return true
	}
	return false
}

// Participant は試合の出場選手
// Team は 0 でチームなしを表す
type Participant struct {
	WrestlerID string
	IsWinner   bool
	Team       int
}

// Match はカード上の試合
type Match struct {
	ID                  string
	Position            int
	MatchType           MatchType
	Participants        []Participant
	IsChampionshipMatch bool
	ChampionshipID      *string
	Stipulation         string
	PlannedDuration     int // 分
	PlannedQuality      rating.Stars
	BookedOutcome       Outcome
	Result              *ItemResult
}

// Winner は勝者を返す（いなければ空文字）
func (m *Match) Winner() string {
	for _, p := range m.Participants {
		if p.IsWinner {
			return p.WrestlerID
		}
	}
	return ""
}

// HasParticipant は指定選手が出場しているかを返す
func (m *Match) HasParticipant(wrestlerID string) bool {
	for _, p := range m.Participants {
		if p.WrestlerID == wrestlerID {
			return true
		}
	}
	return false
}

// Opponent は指定選手の対戦相手のうちカード順で最初の選手を返す
// チーム戦では別チームの選手のみを対象とする
func (m *Match) Opponent(wrestlerID string) string {
	team := 0
	for _, p := range m.Participants {
		if p.WrestlerID == wrestlerID {
			team = p.Team
		}
	}
	for _, p := range m.Participants {
		if p.WrestlerID == wrestlerID {
			continue
		}
		if team != 0 && p.Team == team {
			continue
		}
		return p.WrestlerID
	}
	return ""
}

// Validate は試合の構成を検証する
func (m *Match) Validate() error {
	if m.Position < 0 {
		return ErrInvalidPosition
	}
	if !m.BookedOutcome.Valid() {
		return ErrInvalidOutcome
	}
	if !m.PlannedQuality.Valid() {
		return ErrInvalidPlannedQuality
	}
	if m.PlannedDuration <= 0 {
		return ErrInvalidDuration
	}
	if m.IsChampionshipMatch && (m.ChampionshipID == nil || strings.TrimSpace(*m.ChampionshipID) == "") {
		return ErrChampionshipRequired
	}
	if !m.IsChampionshipMatch && m.ChampionshipID != nil {
		return ErrChampionshipNotTitle
	}
	if err := m.validateParticipants(); err != nil {
		return err
	}
	return m.validateWinners()
}

func (m *Match) validateParticipants() error {
	if len(m.Participants) < 2 {
		return ErrInvalidParticipants
	}
	seen := make(map[string]struct{}, len(m.Participants))
	for _, p := range m.Participants {
		if strings.TrimSpace(p.WrestlerID) == "" {
			return ErrInvalidParticipants
		}
		if p.Team < 0 {
			return ErrInvalidTeams
		}
		if _, ok := seen[p.WrestlerID]; ok {
			return ErrDuplicateParticipant
		}
		seen[p.WrestlerID] = struct{}{}
	}

	n := len(m.Participants)
	switch m.MatchType {
	case MatchTypeSingles:
		if n != 2 {
			return ErrInvalidParticipants
		}
		a, b := m.Participants[0].Team, m.Participants[1].Team
		if a != 0 && b != 0 && a == b {
			return ErrInvalidTeams
		}
	case MatchTypeTagTeam:
		sizes, err := m.teamSizes()
		if err != nil {
			return err
		}
		if sizes[0] != sizes[1] {
			return ErrInvalidTeams
		}
	case MatchTypeHandicap:
		sizes, err := m.teamSizes()
		if err != nil {
			return err
		}
		if sizes[0] == sizes[1] {
			return ErrInvalidTeams
		}
	case MatchTypeTripleThreat:
		if n != 3 {
			return ErrInvalidParticipants
		}
	case MatchTypeFatalFourWay:
		if n != 4 {
			return ErrInvalidParticipants
		}
	case MatchTypeBattleRoyal:
		if n < 4 {
			return ErrInvalidParticipants
		}
	default:
		return ErrInvalidMatchType
	}
	return nil
}

// teamSizes はチーム番号で出場選手がちょうど2つの空でないグループに分かれているかを検証する
func (m *Match) teamSizes() ([2]int, error) {
	var sizes [2]int
	teams := make(map[int]int)
	for _, p := range m.Participants {
		if p.Team == 0 {
			return sizes, ErrInvalidTeams
		}
		teams[p.Team]++
	}
	if len(teams) != 2 {
		return sizes, ErrInvalidTeams
	}
	i := 0
	for _, size := range teams {
		sizes[i] = size
		i++
	}
	return sizes, nil
}

func (m *Match) validateWinners() error {
	winners := 0
	for _, p := range m.Participants {
		if p.IsWinner {
			winners++
		}
	}
	if winners > 1 {
		return ErrTooManyWinners
	}
	if winners == 1 && m.BookedOutcome.NoFinish() {
		return ErrWinnerOnNoFinish
	}
	return nil
}

// CheckWinners は決着のある試合に勝者が決まっていることを確認する
// カード編集中は勝者未定を許し、開始と終了の時点で確定させる
func (s *Show) CheckWinners() error {
	for i := range s.Matches {
		m := &s.Matches[i]
		if !m.BookedOutcome.NoFinish() && m.Winner() == "" {
			return ErrWinnerRequired
		}
	}
	return nil
}

func (m Match) clone() Match {
	if m.Participants != nil {
		ps := make([]Participant, len(m.Participants))
		copy(ps, m.Participants)
		m.Participants = ps
	}
	if m.ChampionshipID != nil {
		v := *m.ChampionshipID
		m.ChampionshipID = &v
	}
	if m.Result != nil {
		r := *m.Result
		m.Result = &r
	}
	return m
}

// Segment はカード上の試合以外の枠（プロモ、インタビュー等）
type Segment struct {
	ID              string
	Position        int
	SegmentType     SegmentType
	WrestlerIDs     []string
	Description     string
	PlannedDuration int // 分
	PlannedQuality  rating.Stars
	Result          *ItemResult
}

// Validate はセグメントを検証する
func (s *Segment) Validate() error {
	if s.Position < 0 {
		return ErrInvalidPosition
	}
	if !s.SegmentType.Valid() {
		return ErrInvalidSegmentType
	}
	if !s.PlannedQuality.Valid() {
		return ErrInvalidPlannedQuality
	}
	if s.PlannedDuration <= 0 {
		return ErrInvalidDuration
	}
	seen := make(map[string]struct{}, len(s.WrestlerIDs))
	for _, id := range s.WrestlerIDs {
		if strings.TrimSpace(id) == "" {
			return ErrInvalidParticipants
		}
		if _, ok := seen[id]; ok {
			return ErrDuplicateParticipant
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (s Segment) clone() Segment {
	if s.WrestlerIDs != nil {
		ids := make([]string, len(s.WrestlerIDs))
		copy(ids, s.WrestlerIDs)
		s.WrestlerIDs = ids
	}
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}

// NextPosition は試合とセグメントを合わせた最大のカード順 + 1 を返す
func (s *Show) NextPosition() int {
	max := 0
	for _, m := range s.Matches {
		if m.Position > max {
			max = m.Position
		}
	}
	for _, seg := range s.Segments {
		if seg.Position > max {
			max = seg.Position
		}
	}
	return max + 1
}

// positionTaken は excludeID 以外の試合・セグメントが position を使っているかを返す
func (s *Show) positionTaken(position int, excludeID string) bool {
	for _, m := range s.Matches {
		if m.ID != excludeID && m.Position == position {
			return true
		}
	}
	for _, seg := range s.Segments {
		if seg.ID != excludeID && seg.Position == position {
			return true
		}
	}
	return false
}

// resolvePosition は新規・更新時のカード順を決める
// 0 は自動採番（更新時は現在の位置を維持）、重複は拒否する
func (s *Show) resolvePosition(requested, current int, id string) (int, error) {
	switch {
	case requested < 0:
		return 0, ErrInvalidPosition
	case requested == 0 && current > 0:
		return current, nil
	case requested == 0:
		return s.NextPosition(), nil
	}
	if s.positionTaken(requested, id) {
		return 0, ErrPositionTaken
	}
	return requested, nil
}

func (s *Show) ensureEditable() error {
	if !s.IsEditable() {
		return ErrShowNotEditable
	}
	return nil
}

// AddMatch はカードに試合を追加し、採番したIDを返す
func (s *Show) AddMatch(m Match) (*Match, error) {
	if err := s.ensureEditable(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	pos, err := s.resolvePosition(m.Position, 0, "")
	if err != nil {
		return nil, err
	}
	m.ID = uuid.NewString()
	m.Position = pos
	m.Result = nil
	s.Matches = append(s.Matches, m.clone())
	s.UpdatedAt = time.Now()
	return &s.Matches[len(s.Matches)-1], nil
}

// UpdateMatch は既存の試合を置き換える
func (s *Show) UpdateMatch(id string, m Match) (*Match, error) {
	if err := s.ensureEditable(); err != nil {
		return nil, err
	}
	idx := s.matchIndex(id)
	if idx < 0 {
		return nil, ErrMatchNotFound
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	pos, err := s.resolvePosition(m.Position, s.Matches[idx].Position, id)
	if err != nil {
		return nil, err
	}
	m.ID = id
	m.Position = pos
	m.Result = nil
	s.Matches[idx] = m.clone()
	s.UpdatedAt = time.Now()
	return &s.Matches[idx], nil
}

// RemoveMatch は試合をカードから外す
func (s *Show) RemoveMatch(id string) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	idx := s.matchIndex(id)
	if idx < 0 {
		return ErrMatchNotFound
	}
	s.Matches = append(s.Matches[:idx], s.Matches[idx+1:]...)
	s.UpdatedAt = time.Now()
	return nil
}

// AddSegment はカードにセグメントを追加し、採番したIDを返す
func (s *Show) AddSegment(seg Segment) (*Segment, error) {
	if err := s.ensureEditable(); err != nil {
		return nil, err
	}
	if err := seg.Validate(); err != nil {
		return nil, err
	}
	pos, err := s.resolvePosition(seg.Position, 0, "")
	if err != nil {
		return nil, err
	}
	seg.ID = uuid.NewString()
	seg.Position = pos
	seg.Result = nil
	s.Segments = append(s.Segments, seg.clone())
	s.UpdatedAt = time.Now()
	return &s.Segments[len(s.Segments)-1], nil
}

// UpdateSegment は既存のセグメントを置き換える
func (s *Show) UpdateSegment(id string, seg Segment) (*Segment, error) {
	if err := s.ensureEditable(); err != nil {
		return nil, err
	}
	idx := s.segmentIndex(id)
	if idx < 0 {
		return nil, ErrSegmentNotFound
	}
	if err := seg.Validate(); err != nil {
		return nil, err
	}
	pos, err := s.resolvePosition(seg.Position, s.Segments[idx].Position, id)
	if err != nil {
		return nil, err
	}
	seg.ID = id
	seg.Position = pos
	seg.Result = nil
	s.Segments[idx] = seg.clone()
	s.UpdatedAt = time.Now()
	return &s.Segments[idx], nil
}

// RemoveSegment はセグメントをカードから外す
func (s *Show) RemoveSegment(id string) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	idx := s.segmentIndex(id)
	if idx < 0 {
		return ErrSegmentNotFound
	}
	s.Segments = append(s.Segments[:idx], s.Segments[idx+1:]...)
	s.UpdatedAt = time.Now()
	return nil
}

// Match はIDから試合を取得する
func (s *Show) Match(id string) (*Match, bool) {
	idx := s.matchIndex(id)
	if idx < 0 {
		return nil, false
	}
	return &s.Matches[idx], true
}

// Segment はIDからセグメントを取得する
func (s *Show) Segment(id string) (*Segment, bool) {
	idx := s.segmentIndex(id)
	if idx < 0 {
		return nil, false
	}
	return &s.Segments[idx], true
}

func (s *Show) matchIndex(id string) int {
	for i := range s.Matches {
		if s.Matches[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Show) segmentIndex(id string) int {
	for i := range s.Segments {
		if s.Segments[i].ID == id {
			return i
		}
	}
	return -1
}
