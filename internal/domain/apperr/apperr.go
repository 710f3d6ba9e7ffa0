// Package apperr はドメイン全体で共有するエラー種別を定義する
//
// 呼び出し側（API層）は種別ごとに 404 / 400 / 409 へ振り分ける。
package apperr

import "errors"

// Kind はエラーの種別
type Kind string

const (
	// NotFound は参照先のエンティティが存在しない
	NotFound Kind = "not_found"
	// Validation は入力値が不正
	Validation Kind = "validation"
	// Conflict は現在の状態では実行できない操作
	Conflict Kind = "conflict"
)

// Error は種別付きのドメインエラー
type Error struct {
	Kind    Kind
	Message string
}

// 種別のみを持つセンチネル。errors.Is で同じ種別のエラーすべてに一致する
var (
	ErrNotFound   = &Error{Kind: NotFound}
	ErrValidation = &Error{Kind: Validation}
	ErrConflict   = &Error{Kind: Conflict}
)

// New は種別付きエラーを作成する
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is は種別センチネルとの比較を行う
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// KindOf はエラーチェーンから最初に見つかった種別を返す
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
