package show

import "github.com/synful23/wrestling-simulator-sub000/internal/domain/apperr"

// Show ドメインのエラー定義
var (
	ErrShowNotFound    = apperr.New(apperr.NotFound, "大会が見つかりません")
	ErrMatchNotFound   = apperr.New(apperr.NotFound, "試合が見つかりません")
	ErrSegmentNotFound = apperr.New(apperr.NotFound, "セグメントが見つかりません")

	ErrShowNameRequired      = apperr.New(apperr.Validation, "大会名は必須です")
	ErrCompanyIDRequired     = apperr.New(apperr.Validation, "団体IDは必須です")
	ErrVenueIDRequired       = apperr.New(apperr.Validation, "会場IDは必須です")
	ErrInvalidShowType       = apperr.New(apperr.Validation, "大会種別が不正です")
	ErrInvalidTicketPrice    = apperr.New(apperr.Validation, "チケット価格は0以上である必要があります")
	ErrShowDateRequired      = apperr.New(apperr.Validation, "開催日は必須です")
	ErrInvalidPosition       = apperr.New(apperr.Validation, "カード順は正の整数である必要があります")
	ErrPositionTaken         = apperr.New(apperr.Validation, "カード順が既に使われています")
	ErrInvalidMatchType      = apperr.New(apperr.Validation, "試合形式が不正です")
	ErrInvalidOutcome        = apperr.New(apperr.Validation, "決着方法が不正です")
	ErrInvalidParticipants   = apperr.New(apperr.Validation, "出場選手の構成が不正です")
	ErrDuplicateParticipant  = apperr.New(apperr.Validation, "同じ選手が重複しています")
	ErrInvalidTeams          = apperr.New(apperr.Validation, "チーム分けが不正です")
	ErrTooManyWinners        = apperr.New(apperr.Validation, "勝者は1人までです")
	ErrWinnerOnNoFinish      = apperr.New(apperr.Validation, "無効試合・引き分けに勝者は設定できません")
	ErrWinnerRequired        = apperr.New(apperr.Validation, "決着のある試合には勝者が必要です")
	ErrChampionshipRequired  = apperr.New(apperr.Validation, "タイトルマッチにはチャンピオンシップの指定が必要です")
	ErrChampionshipNotTitle  = apperr.New(apperr.Validation, "タイトルマッチ以外でチャンピオンシップは指定できません")
	ErrInvalidPlannedQuality = apperr.New(apperr.Validation, "予定評価は1〜5の0.5刻みである必要があります")
	ErrInvalidDuration       = apperr.New(apperr.Validation, "予定時間は1分以上である必要があります")
	ErrInvalidSegmentType    = apperr.New(apperr.Validation, "セグメント種別が不正です")
	ErrNotRosterMember       = apperr.New(apperr.Validation, "団体に所属していない選手が含まれています")
	ErrChampionshipMismatch  = apperr.New(apperr.Validation, "チャンピオンシップが大会の団体と一致しないか無効です")
	ErrInvalidAttendance     = apperr.New(apperr.Validation, "観客動員数は0以上である必要があります")

	ErrShowNotEditable          = apperr.New(apperr.Conflict, "終了またはキャンセル済みの大会は編集できません")
	ErrIllegalTransition        = apperr.New(apperr.Conflict, "大会の状態遷移が不正です")
	ErrShowNotDeletable         = apperr.New(apperr.Conflict, "進行中または終了済みの大会は削除できません")
	ErrChampionshipUpdateFailed = apperr.New(apperr.Conflict, "王座の更新に失敗したため大会を終了できません")
	ErrOptimisticLockConflict   = apperr.New(apperr.Conflict, "楽観的ロックの競合が発生しました")
)
