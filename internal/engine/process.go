package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/locvx/ghichep/internal/model"
	"github.com/locvx/ghichep/internal/parse"
	"github.com/locvx/ghichep/internal/service"
	"github.com/locvx/ghichep/internal/vntext"
)

const helpText = "Chào bạn! Mình là bot ghi chép chi tiêu. Gõ như: `cafe 50` để ghi chi tiêu nhé!"

// ProcessMessage handles one inbound chat message end to end and returns the
// reply to send back on the same platform.
func (e *Engine) ProcessMessage(ctx context.Context, msg service.InboundMessage) (service.OutboundReply, error) {
	user, err := e.identity.Resolve(ctx, msg.Platform, msg.AccountID, msg.DisplayName)
	if err != nil {
		return service.OutboundReply{}, fmt.Errorf("failed to resolve sender: %w", err)
	}

	text := strings.TrimSpace(msg.Text)

	// Voice message: transcription failure surfaces to the user, there is
	// no rule fallback for audio.
	if len(msg.Audio) > 0 {
		if e.transcriber == nil {
			return reply("Xin lỗi, mình chưa nghe được tin nhắn thoại 🙏"), nil
		}
		transcribed, terr := e.transcriber.Transcribe(ctx, msg.Audio, msg.AudioMIME)
		if terr != nil {
			e.logger.Warn("transcription failed", "error", terr)
			return reply("Mình không nghe rõ tin nhắn thoại, bạn thử gõ lại giúp mình nhé 🙏"), nil
		}
		text = transcribed
	}

	if text == "" {
		return reply(helpText), nil
	}

	// A waiting pick list is resolved by a matching choice; any other input
	// abandons it and is processed as new.
	if pending, ok := e.sessions.Get(user.ID, ""); ok {
		if resolved, rerr := e.tryResolveChoice(ctx, pending, text); rerr != nil {
			return service.OutboundReply{}, rerr
		} else if resolved != nil {
			return *resolved, nil
		}
		e.sessions.Cancel(user.ID)
	}

	if parse.IsQuestion(text) {
		return e.answerQuery(ctx, user.ID, text)
	}
	return e.recordTransactions(ctx, user.ID, text)
}

// tryResolveChoice interprets text as an answer to the waiting pick list:
// either the choice number or a category name. It returns nil when the text
// is not a choice.
func (e *Engine) tryResolveChoice(ctx context.Context, pending model.PendingClassification, text string) (*service.OutboundReply, error) {
	choices, err := e.pickList(ctx, pending.Kind)
	if err != nil {
		return nil, err
	}

	var chosen *model.Category
	if n, convErr := strconv.Atoi(text); convErr == nil && n >= 1 && n <= len(choices) {
		chosen = &choices[n-1]
	} else {
		for i := range choices {
			if vntext.EqualFold(choices[i].Name, text) {
				chosen = &choices[i]
				break
			}
		}
	}
	if chosen == nil {
		return nil, nil
	}

	out, err := e.ResolveCategoryChoice(ctx, pending.UserID, pending.CorrelationID, chosen.ID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// recordTransactions parses the utterance and persists what it can.
func (e *Engine) recordTransactions(ctx context.Context, userID int64, text string) (service.OutboundReply, error) {
	phrases, suggestions := e.parsePhrases(ctx, text)
	if len(phrases) == 0 {
		return e.smallTalk(ctx, text), nil
	}

	var saved []model.Transaction
	var pendingReply *service.OutboundReply
	for i, phrase := range phrases {
		decision, err := e.classifier.Classify(ctx, userID, phrase.Note, phrase.Kind, suggestions[i])
		if err != nil {
			return service.OutboundReply{}, fmt.Errorf("classification failed: %w", err)
		}

		// Only the first ambiguous phrase escalates to a pick list; the
		// rest keep their provisional category so nothing is lost.
		if decision.NeedsConfirmation && pendingReply == nil {
			r, perr := e.askForCategory(ctx, userID, phrase, decision)
			if perr != nil {
				return service.OutboundReply{}, perr
			}
			pendingReply = &r
			continue
		}

		txn, err := e.saveTransaction(ctx, userID, phrase, decision.CategoryID)
		if err != nil {
			return service.OutboundReply{}, err
		}
		saved = append(saved, *txn)
	}

	if pendingReply != nil && len(saved) == 0 {
		return *pendingReply, nil
	}

	out, err := e.confirmationReply(ctx, userID, saved)
	if err != nil {
		return service.OutboundReply{}, err
	}
	if pendingReply != nil {
		out.Text += "\n\n" + pendingReply.Text
		out.Choices = pendingReply.Choices
		out.CorrelationID = pendingReply.CorrelationID
	}
	return out, nil
}

// parsePhrases extracts transaction phrases, preferring the language service
// and falling back to the rule parser. The returned suggestions slice is
// parallel to phrases and holds the suggested category name per phrase.
func (e *Engine) parsePhrases(ctx context.Context, text string) ([]parse.Phrase, []string) {
	if e.parser != nil {
		result, err := e.parser.Parse(ctx, text)
		if err != nil {
			e.logger.Warn("language parse failed, using rules", "error", err)
		} else if result.Understood && len(result.Transactions) > 0 {
			phrases := make([]parse.Phrase, 0, len(result.Transactions))
			suggestions := make([]string, 0, len(result.Transactions))
			for _, txn := range result.Transactions {
				phrases = append(phrases, parse.Phrase{
					Amount: txn.Amount,
					Note:   txn.Note,
					Kind:   txn.Kind,
					Source: text,
				})
				suggestions = append(suggestions, txn.Category)
			}
			return phrases, suggestions
		}
	}

	phrases, err := parse.Phrases(text, e.opts)
	if err != nil {
		if !errors.Is(err, parse.ErrNoAmount) {
			e.logger.Warn("rule parse failed", "error", err)
		}
		return nil, nil
	}
	return phrases, make([]string, len(phrases))
}

// askForCategory parks the phrase as pending and builds the pick list reply.
func (e *Engine) askForCategory(ctx context.Context, userID int64, phrase parse.Phrase, decision model.Decision) (service.OutboundReply, error) {
	choices, err := e.pickList(ctx, phrase.Kind)
	if err != nil {
		return service.OutboundReply{}, err
	}

	correlationID := uuid.New().String()
	e.sessions.Put(model.PendingClassification{
		CorrelationID: correlationID,
		UserID:        userID,
		Amount:        phrase.Amount,
		Note:          phrase.Note,
		SourceText:    phrase.Source,
		Kind:          phrase.Kind,
		CandidateID:   decision.CategoryID,
		OccurredAt:    e.now().In(e.loc),
		CreatedAt:     e.now().In(e.loc),
	})

	return service.OutboundReply{
		Text:          pickListText(phrase, choices),
		Choices:       choices,
		CorrelationID: correlationID,
	}, nil
}

// pickList returns the categories offered for a kind, in stable ID order.
func (e *Engine) pickList(ctx context.Context, kind model.Kind) ([]model.Category, error) {
	categories, err := e.store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	var choices []model.Category
	for _, cat := range categories {
		if cat.Kind == kind {
			choices = append(choices, cat)
		}
	}
	return choices, nil
}

// saveTransaction persists one classified phrase and enqueues it for sync.
func (e *Engine) saveTransaction(ctx context.Context, userID int64, phrase parse.Phrase, categoryID int) (*model.Transaction, error) {
	txn := &model.Transaction{
		ID:         uuid.New().String(),
		UserID:     userID,
		Amount:     phrase.Amount,
		Note:       phrase.Note,
		SourceText: phrase.Source,
		Kind:       phrase.Kind,
		CategoryID: categoryID,
		OccurredAt: e.now().In(e.loc),
	}
	if err := e.store.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}
	e.publishSync(ctx, txn.ID)
	return txn, nil
}

func (e *Engine) publishSync(ctx context.Context, transactionID string) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishTransactionSync(ctx, transactionID); err != nil {
		// Sync is best effort; the ledger stays the source of truth.
		e.logger.Warn("failed to enqueue sync", "transaction_id", transactionID, "error", err)
	}
}

// smallTalk handles a message with no amount in it.
func (e *Engine) smallTalk(ctx context.Context, text string) service.OutboundReply {
	if e.parser != nil {
		if answer, err := e.parser.Chat(ctx, text); err == nil && answer != "" {
			return reply(answer)
		}
	}
	return reply(helpText)
}

func reply(text string) service.OutboundReply {
	return service.OutboundReply{Text: text}
}
