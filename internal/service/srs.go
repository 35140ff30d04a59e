// internal/service/srs.go
package service

import (
	"math"

	"go_hanzi_keep/internal/model"
)

// SM-2系アルゴリズムの定数。初回のイージーファクターは常に2.5で、
// 以降の更新でも1.3を下回ることはありません。
const (
	initialEaseFactor = 2.5
	minEaseFactor     = 1.3

	MinPerformance = 1
	MaxPerformance = 5
)

// firstIntervals は初回復習の評価ごとの間隔 (日数) です
var firstIntervals = map[int]int{
	1: 1, // もう一度 - 翌日
	2: 1, // 難しい - 翌日
	3: 3, // 普通 - 3日後
	4: 5, // 簡単 - 5日後
	5: 7, // 完璧 - 7日後
}

// validPerformance は評価が契約範囲 [1,5] 内かを判定します
func validPerformance(performance int) bool {
	return performance >= MinPerformance && performance <= MaxPerformance
}

// calculateSrsParameters は前回の状態と今回の評価から、次のイージー
// ファクターと復習間隔 (日数) を純粋に計算します。prev が nil の場合は
// 初回復習として扱います。呼び出し前に評価の範囲チェックを行ってください。
func calculateSrsParameters(prev *model.SrsReview, performance int) (easeFactor float64, intervalDays int) {
	if prev == nil {
		return initialEaseFactor, firstIntervals[performance]
	}

	// 評価1はハードリセット: 間隔を1日に戻し、イージーファクターの
	// 減衰計算より優先される (EFは据え置き)
	if performance == MinPerformance {
		return prev.EaseFactor, 1
	}

	easeFactor = prev.EaseFactor + 0.1 - float64(MaxPerformance-performance)*0.08
	if easeFactor < minEaseFactor {
		easeFactor = minEaseFactor
	}

	switch performance {
	case 2:
		// 定着が弱い: 間隔に2割のペナルティ
		intervalDays = int(math.Round(float64(prev.IntervalDays) * 0.8))
	default:
		// 3〜5: 更新後のイージーファクターで間隔を伸ばす
		intervalDays = int(math.Round(float64(prev.IntervalDays) * easeFactor))
	}
	if intervalDays < 1 {
		intervalDays = 1
	}

	return easeFactor, intervalDays
}
