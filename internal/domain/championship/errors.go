package championship

import "github.com/synful23/wrestling-simulator-sub000/internal/domain/apperr"

// Championship ドメインのエラー定義
var (
	ErrChampionshipNotFound   = apperr.New(apperr.NotFound, "チャンピオンシップが見つかりません")
	ErrNameRequired           = apperr.New(apperr.Validation, "チャンピオンシップ名は必須です")
	ErrCompanyIDRequired      = apperr.New(apperr.Validation, "団体IDは必須です")
	ErrInvalidWeightClass     = apperr.New(apperr.Validation, "階級が不正です")
	ErrInvalidPrestige        = apperr.New(apperr.Validation, "格付けは0〜100である必要があります")
	ErrHolderRequired         = apperr.New(apperr.Validation, "新王者のIDは必須です")
	ErrSameHolder             = apperr.New(apperr.Validation, "現王者と同じレスラーは新王者に設定できません")
	ErrChallengerRequired     = apperr.New(apperr.Validation, "挑戦者のIDは必須です")
	ErrChallengerIsHolder     = apperr.New(apperr.Validation, "挑戦者が現王者です")
	ErrInvalidQuality         = apperr.New(apperr.Validation, "試合評価は1〜5の0.5刻みである必要があります")
	ErrBoundaryBeforeStart    = apperr.New(apperr.Validation, "日付が現在の戴冠開始日より前です")
	ErrShowNotCompleted       = apperr.New(apperr.Validation, "参照する大会が終了していません")
	ErrShowOtherCompany       = apperr.New(apperr.Validation, "参照する大会が別団体のものです")
	ErrChampionshipInactive   = apperr.New(apperr.Conflict, "チャンピオンシップは無効化されています")
	ErrTitleVacant            = apperr.New(apperr.Conflict, "王座が空位のため防衛を記録できません")
	ErrAlreadyVacant          = apperr.New(apperr.Conflict, "王座は既に空位です")
	ErrInconsistentLineage    = apperr.New(apperr.Conflict, "王座の系譜に矛盾があります")
	ErrOptimisticLockConflict = apperr.New(apperr.Conflict, "楽観的ロックの競合が発生しました")
)
