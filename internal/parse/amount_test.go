package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvx/ghichep/internal/model"
)

func TestAmountScaling(t *testing.T) {
	tests := []struct {
		token string
		want  int64
	}{
		{"50", 50_000},
		{"35k", 35_000},
		{"35K", 35_000},
		{"2tr", 2_000_000},
		{"2m", 2_000_000},
		{"15,5k", 15_500},
		{"15.5k", 15_500},
		{"20 nghìn", 20_000},
		{"3 triệu", 3_000_000},
		{"20000", 20_000},
		{"20.000", 20_000},
		{"999", 999_000},
		{"1000", 1_000},
		{"1500", 1_500},
	}
	for _, tt := range tests {
		got, err := Amount(tt.token, DefaultOptions())
		require.NoError(t, err, "Amount(%q)", tt.token)
		assert.Equal(t, tt.want, got, "Amount(%q)", tt.token)
	}
}

func TestAmountThresholdConfigurable(t *testing.T) {
	opts := Options{AutoScaleBelow: 100}

	got, err := Amount("350", opts)
	require.NoError(t, err)
	assert.Equal(t, int64(350), got, "at or above threshold stays literal")

	got, err = Amount("80", opts)
	require.NoError(t, err)
	assert.Equal(t, int64(80_000), got, "below threshold scales")
}

func TestExtractPositionIndependent(t *testing.T) {
	head, err := Extract("50 cafe", DefaultOptions())
	require.NoError(t, err)
	tail, err := Extract("cafe 50", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, int64(50_000), head.Amount)
	assert.Equal(t, head.Amount, tail.Amount)
	assert.Equal(t, "cafe", head.Note)
	assert.Equal(t, "cafe", tail.Note)

	mid, err := Extract("mua 20k bánh mì", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(20_000), mid.Amount)
	assert.Equal(t, "mua bánh mì", mid.Note)
}

func TestExtractSignHint(t *testing.T) {
	income, err := Extract("+500 bán đồ cũ", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, model.KindIncome, income.Kind)
	assert.Equal(t, int64(500_000), income.Amount)

	expense, err := Extract("-50 cafe", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, model.KindExpense, expense.Kind)

	implicit, err := Extract("cafe 50", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, model.KindExpense, implicit.Kind)
}

func TestExtractRejectsEmbeddedDigits(t *testing.T) {
	// The 7 inside a token like "x7u" is not an amount.
	_, err := Extract("up x7u colorvs", DefaultOptions())
	assert.ErrorIs(t, err, ErrNoAmount)

	p, err := Extract("up x7u colorvs 350", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(350_000), p.Amount)
	assert.Equal(t, "up x7u colorvs", p.Note)
}

func TestExtractSuffixBoundary(t *testing.T) {
	// "50 km" is fifty (scaled), not fifty thousand times anything.
	p, err := Extract("đi 50 km", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), p.Amount)
	assert.Equal(t, "đi km", p.Note)
}

func TestExtractNoAmount(t *testing.T) {
	_, err := Extract("chào bạn", DefaultOptions())
	assert.ErrorIs(t, err, ErrNoAmount)

	_, err = Extract("", DefaultOptions())
	assert.ErrorIs(t, err, ErrNoAmount)
}

func TestAmountMonotonicWithinSuffix(t *testing.T) {
	small, err := Amount("10k", DefaultOptions())
	require.NoError(t, err)
	large, err := Amount("20k", DefaultOptions())
	require.NoError(t, err)
	assert.Less(t, small, large)
}
