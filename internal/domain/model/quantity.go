package model

import (
	"errors"
	"math"
)

// 在庫を増やすか減らすか
type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrNegativeDelta    = errors.New("amount must be >= 0")
	ErrNegativeQuantity = errors.New("quantity can not be negative")
	ErrQuantityOverflow = errors.New("quantity too large")
)

func (d Direction) Valid() bool {
	return d == DirectionIncrease || d == DirectionDecrease
}

// AdjustQuantity は current に delta を加減した新しい在庫数を返す。
// 結果が0未満になる場合は ErrNegativeQuantity を返し、呼び出し側は書き込まないこと。
func AdjustQuantity(current int64, delta int64, dir Direction) (int64, error) {
	if !dir.Valid() {
		return current, ErrInvalidDirection
	}
	if delta < 0 {
		return current, ErrNegativeDelta
	}

	if dir == DirectionIncrease {
		if delta > math.MaxInt64-current {
			return current, ErrQuantityOverflow
		}
		return current + delta, nil
	}

	next := current - delta
	if next < 0 {
		return current, ErrNegativeQuantity
	}
	return next, nil
}
