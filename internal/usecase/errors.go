package usecase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// カタログ更新の行が items に無いIDを参照している。何も書き込まれない。
type InvalidReferenceError struct {
	ItemIDs []string
}

func (e *InvalidReferenceError) Error() string {
	return "sections reference unknown items: " + strings.Join(e.ItemIDs, ", ")
}

// バッチがカタログに無いIDを指している。計算前に弾く。
type UnknownItemError struct {
	ItemIDs []string
}

func (e *UnknownItemError) Error() string {
	return "unknown items: " + strings.Join(e.ItemIDs, ", ")
}

// 在庫がマイナスになるアイテムの一覧。バッチ全体を一度に直せるよう
// 全アイテム分をまとめて返す（最初の1件で打ち切らない）。
type InsufficientStockError struct {
	Messages []string
}

func (e *InsufficientStockError) Error() string {
	return strings.Join(e.Messages, "\n")
}

func dedupeSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
