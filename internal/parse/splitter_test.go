package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMultipleTransactions(t *testing.T) {
	assert.Equal(t, []string{"cafe 50", "bánh mì 20"}, Split("cafe 50 và bánh mì 20"))
	assert.Equal(t, []string{"cafe 50", "gửi xe 5k"}, Split("cafe 50, gửi xe 5k"))
	assert.Equal(t, []string{"ăn trưa 80k", "taxi 120"}, Split("ăn trưa 80k; taxi 120"))
}

func TestSplitKeepsQualifiers(t *testing.T) {
	// A segment without its own amount merges with its neighbor.
	assert.Equal(t, []string{"tiền nhà 2 triệu"}, Split("tiền nhà, 2 triệu"))
	// The conjunction itself is consumed when the qualifier re-attaches.
	assert.Equal(t, []string{"cafe 50 bạn"}, Split("cafe 50 với bạn"))
}

func TestSplitNoAmountAnywhere(t *testing.T) {
	assert.Equal(t, []string{"chào bạn, khỏe không"}, Split("chào bạn, khỏe không"))
	assert.Nil(t, Split("  "))
}

func TestPhrases(t *testing.T) {
	phrases, err := Phrases("cafe 50 và bánh mì 20", DefaultOptions())
	require.NoError(t, err)
	require.Len(t, phrases, 2)

	assert.Equal(t, int64(50_000), phrases[0].Amount)
	assert.Equal(t, "cafe", phrases[0].Note)
	assert.Equal(t, int64(20_000), phrases[1].Amount)
	assert.Equal(t, "bánh mì", phrases[1].Note)
}

func TestPhrasesNoAmount(t *testing.T) {
	_, err := Phrases("hôm nay trời đẹp", DefaultOptions())
	assert.ErrorIs(t, err, ErrNoAmount)
}
