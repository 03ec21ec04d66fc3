package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvx/ghichep/internal/aggregate"
	"github.com/locvx/ghichep/internal/classify"
	"github.com/locvx/ghichep/internal/identity"
	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/service"
	"github.com/locvx/ghichep/internal/session"
	"github.com/locvx/ghichep/internal/storage"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.SeedCategories(ctx))

	sessions := session.New(0, nil)
	t.Cleanup(sessions.Close)

	return New(Config{
		Store:      store,
		Classifier: classify.New(store, nil),
		Identity:   identity.New(store, nil),
		Aggregator: aggregate.New(store),
		Sessions:   sessions,
	})
}

func inbound(text string) service.InboundMessage {
	return service.InboundMessage{
		Platform:  "telegram",
		AccountID: "tg-1",
		Text:      text,
	}
}

func TestProcessMessageAsksThenLearns(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	// First time, "cafe" only matches the keyword dictionary, so the bot
	// asks which category it belongs to.
	out, err := e.ProcessMessage(ctx, inbound("cafe 50"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "thuộc danh mục nào?")
	assert.Contains(t, out.Text, "50k")
	require.NotEmpty(t, out.Choices)
	assert.NotEmpty(t, out.CorrelationID)

	// Ăn uống is the second seeded expense category.
	assert.Equal(t, "Ăn uống", out.Choices[1].Name)

	out, err = e.ProcessMessage(ctx, inbound("2"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "✅")
	assert.Contains(t, out.Text, "Ăn uống")
	assert.Contains(t, out.Text, "📊 Hôm nay: chi 50k")

	// The choice was learned, so the same phrasing now records silently.
	out, err = e.ProcessMessage(ctx, inbound("cafe 50"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "✅ 💸 50k - cafe (Ăn uống)")
	assert.NotContains(t, out.Text, "thuộc danh mục nào?")
	assert.Empty(t, out.Choices)
	assert.Contains(t, out.Text, "chi 100k")
}

func TestProcessMessageChoiceByName(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.ProcessMessage(ctx, inbound("cafe 50"))
	require.NoError(t, err)

	out, err := e.ProcessMessage(ctx, inbound("an uong"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "Ăn uống")
	assert.Contains(t, out.Text, "✅")
}

func TestProcessMessageNonChoiceAbandonsPending(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.ProcessMessage(ctx, inbound("cafe 50"))
	require.NoError(t, err)

	// A question instead of a choice drops the pick list and is answered.
	out, err := e.ProcessMessage(ctx, inbound("hôm nay chi bao nhiêu?"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "📊 Hôm nay")
	assert.Contains(t, out.Text, "Chưa có giao dịch nào.")

	// The old pick list is gone; a number is no longer a valid answer.
	out, err = e.ProcessMessage(ctx, inbound("2"))
	require.NoError(t, err)
	assert.NotContains(t, out.Text, "✅")
}

func TestProcessMessageIncome(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	// The leading + marks income; the dictionary hit is still ambiguous, so
	// the pick list shows only income categories.
	out, err := e.ProcessMessage(ctx, inbound("lương +15tr"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "thuộc danh mục nào?")
	require.Len(t, out.Choices, 3)
	assert.Equal(t, "Lương", out.Choices[0].Name)

	out, err = e.ProcessMessage(ctx, inbound("1"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "💰 15tr")
	assert.Contains(t, out.Text, "thu 15tr")
}

func TestProcessMessageMultipleTransactions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	// Teach "cafe" first so the multi-phrase message persists it silently.
	_, err := e.ProcessMessage(ctx, inbound("cafe 50"))
	require.NoError(t, err)
	_, err = e.ProcessMessage(ctx, inbound("2"))
	require.NoError(t, err)

	out, err := e.ProcessMessage(ctx, inbound("cafe 30, mua vé số 10k"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "✅ 💸 30k - cafe (Ăn uống)")
	// The unknown phrase escalates; its question is appended after the
	// confirmation of what was saved.
	assert.Contains(t, out.Text, "thuộc danh mục nào?")
	assert.NotEmpty(t, out.CorrelationID)
}

func TestProcessMessageQuery(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.ProcessMessage(ctx, inbound("cafe 50"))
	require.NoError(t, err)
	_, err = e.ProcessMessage(ctx, inbound("2"))
	require.NoError(t, err)

	out, err := e.ProcessMessage(ctx, inbound("hôm nay chi bao nhiêu?"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "📊 Hôm nay")
	assert.Contains(t, out.Text, "💸 Chi: 50k")
	assert.Contains(t, out.Text, "🧾 1 giao dịch")
}

func TestProcessMessageInsights(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.ProcessMessage(ctx, inbound("cafe 50"))
	require.NoError(t, err)
	_, err = e.ProcessMessage(ctx, inbound("2"))
	require.NoError(t, err)

	out, err := e.ProcessMessage(ctx, inbound("thống kê tháng này"))
	require.NoError(t, err)
	assert.Contains(t, out.Text, "📈 Thống kê tháng này")
	assert.Contains(t, out.Text, "🔝 Khoản lớn nhất: 50k - cafe")
	assert.Contains(t, out.Text, "Ăn uống: 50k")
}

func TestProcessMessageSmallTalk(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	out, err := e.ProcessMessage(ctx, inbound("chào bạn"))
	require.NoError(t, err)
	assert.Equal(t, helpText, out.Text)

	out, err = e.ProcessMessage(ctx, inbound(""))
	require.NoError(t, err)
	assert.Equal(t, helpText, out.Text)
}

func TestProcessMessageAudioWithoutTranscriber(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	out, err := e.ProcessMessage(ctx, service.InboundMessage{
		Platform:  "telegram",
		AccountID: "tg-1",
		Audio:     []byte{0x4f, 0x67, 0x67},
		AudioMIME: "audio/ogg",
	})
	require.NoError(t, err)
	assert.Contains(t, out.Text, "tin nhắn thoại")
}

func TestResolveCategoryChoiceExpired(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	user, err := e.identity.Resolve(ctx, "telegram", "tg-1", "")
	require.NoError(t, err)

	out, err := e.ResolveCategoryChoice(ctx, user.ID, "missing", 2)
	require.NoError(t, err)
	assert.Contains(t, out.Text, "hết hạn")
}

func TestDeleteLast(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	user, err := e.identity.Resolve(ctx, "telegram", "tg-1", "")
	require.NoError(t, err)

	out, err := e.DeleteLast(ctx, user.ID)
	require.NoError(t, err)
	assert.Contains(t, out.Text, "Chưa có giao dịch nào")

	_, err = e.ProcessMessage(ctx, inbound("cafe 50"))
	require.NoError(t, err)
	_, err = e.ProcessMessage(ctx, inbound("2"))
	require.NoError(t, err)

	out, err = e.DeleteLast(ctx, user.ID)
	require.NoError(t, err)
	assert.Contains(t, out.Text, "🗑️ Đã xoá: 50k - cafe")

	summary, err := e.aggregator.Aggregate(ctx, user.ID, model.RangeAll, aggregate.Filter{}, e.now())
	require.NoError(t, err)
	assert.Zero(t, summary.Count)
}

func TestReassignLast(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	user, err := e.identity.Resolve(ctx, "telegram", "tg-1", "")
	require.NoError(t, err)

	_, err = e.ProcessMessage(ctx, inbound("cafe 50"))
	require.NoError(t, err)
	_, err = e.ProcessMessage(ctx, inbound("2"))
	require.NoError(t, err)

	out, err := e.ReassignLast(ctx, user.ID, "Giải trí")
	require.NoError(t, err)
	assert.Contains(t, out.Text, "✏️ Đã chuyển 50k - cafe sang Giải trí")

	// The reassignment was learned; the mapping now wins over the old one.
	out, err = e.ProcessMessage(ctx, inbound("cafe 30"))
	require.NoError(t, err)
	require.True(t, strings.Contains(out.Text, "Giải trí"), "reply: %s", out.Text)
}
