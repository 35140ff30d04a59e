// internal/service/srs_test.go
package service

import (
	"testing"

	"go_hanzi_keep/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestValidPerformance(t *testing.T) {
	assert.False(t, validPerformance(0))
	assert.True(t, validPerformance(1))
	assert.True(t, validPerformance(3))
	assert.True(t, validPerformance(5))
	assert.False(t, validPerformance(6))
	assert.False(t, validPerformance(-1))
}

func TestCalculateSrsParameters_FirstReview(t *testing.T) {
	tests := []struct {
		name         string
		performance  int
		wantInterval int
	}{
		{name: "正常系: 評価1は翌日", performance: 1, wantInterval: 1},
		{name: "正常系: 評価2は翌日", performance: 2, wantInterval: 1},
		{name: "正常系: 評価3は3日後", performance: 3, wantInterval: 3},
		{name: "正常系: 評価4は5日後", performance: 4, wantInterval: 5},
		{name: "正常系: 評価5は7日後", performance: 5, wantInterval: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ef, interval := calculateSrsParameters(nil, tt.performance)
			// 初回はどの評価でもイージーファクターは2.5
			assert.InDelta(t, 2.5, ef, 1e-9)
			assert.Equal(t, tt.wantInterval, interval)
		})
	}
}

func TestCalculateSrsParameters_Subsequent(t *testing.T) {
	prev := &model.SrsReview{EaseFactor: 2.5, IntervalDays: 7}

	tests := []struct {
		name         string
		prev         *model.SrsReview
		performance  int
		wantEase     float64
		wantInterval int
	}{
		{
			// ハードリセット: 間隔は1日に戻るがイージーファクターは変わらない
			name: "正常系: 評価1はハードリセット", prev: prev, performance: 1,
			wantEase: 2.5, wantInterval: 1,
		},
		{
			// EF' = 2.5 + 0.1 - 3*0.08 = 2.36, 間隔 = round(7 * 0.8) = 6
			name: "正常系: 評価2は間隔に2割ペナルティ", prev: prev, performance: 2,
			wantEase: 2.36, wantInterval: 6,
		},
		{
			// EF' = 2.5 + 0.1 - 2*0.08 = 2.44, 間隔 = round(7 * 2.44) = 17
			name: "正常系: 評価3", prev: prev, performance: 3,
			wantEase: 2.44, wantInterval: 17,
		},
		{
			// EF' = 2.5 + 0.1 - 1*0.08 = 2.52, 間隔 = round(7 * 2.52) = 18
			name: "正常系: 評価4", prev: prev, performance: 4,
			wantEase: 2.52, wantInterval: 18,
		},
		{
			// EF' = 2.5 + 0.1 = 2.6, 間隔 = round(7 * 2.6) = 18
			name: "正常系: 評価5", prev: prev, performance: 5,
			wantEase: 2.6, wantInterval: 18,
		},
		{
			// EF' = 1.3 + 0.1 - 2*0.08 = 1.24 → 下限1.3でクランプ
			name: "正常系: イージーファクターは1.3未満にならない",
			prev: &model.SrsReview{EaseFactor: 1.3, IntervalDays: 10}, performance: 3,
			wantEase: 1.3, wantInterval: 13,
		},
		{
			// round(1 * 0.8) = 1 → 間隔の下限は1日
			name: "正常系: 間隔は1日未満にならない",
			prev: &model.SrsReview{EaseFactor: 2.5, IntervalDays: 1}, performance: 2,
			wantEase: 2.36, wantInterval: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ef, interval := calculateSrsParameters(tt.prev, tt.performance)
			assert.InDelta(t, tt.wantEase, ef, 1e-9)
			assert.Equal(t, tt.wantInterval, interval)
		})
	}
}

func TestCalculateSrsParameters_EaseMonotonicity(t *testing.T) {
	// 評価が高いほど更新後のイージーファクターも大きい
	prev := &model.SrsReview{EaseFactor: 2.0, IntervalDays: 5}
	var last float64
	for p := 2; p <= 5; p++ {
		ef, _ := calculateSrsParameters(prev, p)
		assert.Greater(t, ef, last, "performance=%d", p)
		last = ef
	}
}
