package repository

import "errors"

var (
	// 見つからないを統一
	ErrNotFound = errors.New("not found")
	// 一意制約違反（名前・メール・注文番号など）
	ErrDuplicate = errors.New("duplicate")
)
