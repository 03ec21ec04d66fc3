package vntext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Ăn uống", "an uong"},
		{"bánh mì", "banh mi"},
		{"BÁNH MÌ", "banh mi"},
		{"đổ xăng", "do xang"},
		{"Được", "duoc"},
		{"cafe", "cafe"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.input), "Fold(%q)", tt.input)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "trà đào", Normalize("  Trà   Đào "))
	assert.Equal(t, "cafe", Normalize("CAFE"))
	assert.Equal(t, "", Normalize("   "))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("mua bánh mì 20k", "banh mi"))
	assert.True(t, ContainsFold("mua banh mi", "bánh mì"))
	assert.True(t, ContainsFold("ĐỔ XĂNG đầy bình", "xăng"))
	assert.False(t, ContainsFold("cafe sữa", "trà"))
	assert.False(t, ContainsFold("anything", ""))
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("Ăn uống", "an uong"))
	assert.True(t, EqualFold(" Di chuyển ", "di chuyen"))
	assert.False(t, EqualFold("Ăn uống", "an"))
}
