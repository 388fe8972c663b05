package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/m-mizutani/gt"
	"github.com/teamtempo/tempobot/internal/domain"
	"github.com/teamtempo/tempobot/internal/repository"
	"github.com/teamtempo/tempobot/internal/service"
	"github.com/teamtempo/tempobot/internal/telegram"

	"github.com/google/uuid"
)

type sentMessage struct {
	ChatID any
	Text   string
	Markup models.ReplyMarkup
}

type editedMessage struct {
	ChatID    any
	MessageID int
	Text      string
	Markup    models.ReplyMarkup
}

type answer struct {
	CallbackID string
	Text       string
}

// fakeTransport records every operation and hands out sequential message ids.
type fakeTransport struct {
	nextID      int
	sent        []sentMessage
	edits       []editedMessage
	markupEdits []editedMessage
	answers     []answer
	sendErr     error
}

var _ telegram.Transport = (*fakeTransport)(nil)

func (f *fakeTransport) SendMessage(ctx context.Context, chatID any, text string, markup models.ReplyMarkup) (int, error) {
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, Markup: markup})
	return f.nextID, nil
}

func (f *fakeTransport) EditMessageText(ctx context.Context, chatID any, messageID int, text string, markup models.ReplyMarkup) error {
	f.edits = append(f.edits, editedMessage{ChatID: chatID, MessageID: messageID, Text: text, Markup: markup})
	return nil
}

func (f *fakeTransport) EditMessageReplyMarkup(ctx context.Context, chatID any, messageID int, markup models.ReplyMarkup) error {
	f.markupEdits = append(f.markupEdits, editedMessage{ChatID: chatID, MessageID: messageID, Markup: markup})
	return nil
}

func (f *fakeTransport) AnswerCallback(ctx context.Context, callbackID, text string) error {
	f.answers = append(f.answers, answer{CallbackID: callbackID, Text: text})
	return nil
}

// buttonData digs the callback payload out of an inline keyboard.
func buttonData(t *testing.T, markup models.ReplyMarkup) string {
	t.Helper()
	kb, ok := markup.(*models.InlineKeyboardMarkup)
	if !ok || len(kb.InlineKeyboard) != 1 || len(kb.InlineKeyboard[0]) != 1 {
		t.Fatalf("unexpected inline keyboard: %#v", markup)
	}
	return kb.InlineKeyboard[0][0].CallbackData
}

const startDate = int64(1700000000)

func newActivityFixture(t *testing.T) (*service.ActivityService, *fakeTransport, *repository.MemoryStore) {
	t.Helper()
	tr := &fakeTransport{}
	store := repository.NewMemoryStore()
	svc := service.NewActivityService(tr, store, store, "@team")
	svc.Now = func() time.Time { return time.Unix(startDate+3661, 0) }
	return svc, tr, store
}

func alice() *domain.User {
	return &domain.User{ID: 1, ChatID: 10, UserName: "alice"}
}

func TestStartBroadcastsActivity(t *testing.T) {
	svc, tr, store := newActivityFixture(t)
	ctx := context.Background()
	user := alice()
	gt.NoError(t, store.AddUser(ctx, user)).Required()

	gt.NoError(t, svc.Start(ctx, user, "Fix bug", startDate)).Required()

	gt.Array(t, tr.sent).Length(2).Required()

	channel := tr.sent[0]
	gt.Value(t, channel.ChatID).Equal(any("@team"))
	gt.String(t, channel.Text).Equal("@alice Fix bug (in progress)")
	gt.String(t, buttonData(t, channel.Markup)).Equal("g:0")

	private := tr.sent[1]
	gt.Value(t, private.ChatID).Equal(any(int64(10)))
	gt.String(t, private.Text).Equal("Fix bug (in progress)")
	gt.String(t, buttonData(t, private.Markup)).Equal("f:1700000000:1")

	rec, err := store.GetByChannelMessageID(ctx, 1)
	gt.NoError(t, err).Required()
	gt.Value(t, rec.Phase).Equal(domain.PhaseInProgress)
	gt.Value(t, rec.PrivateMessageID).Equal(2)
	gt.Value(t, rec.StartedAt).Equal(startDate)

	users, err := store.GetUsers(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, users[0].ResponseTime).Equal(startDate + 3661)
}

func TestGratitudeAccumulates(t *testing.T) {
	svc, tr, store := newActivityFixture(t)
	ctx := context.Background()
	user := alice()
	gt.NoError(t, store.AddUser(ctx, user)).Required()
	gt.NoError(t, svc.Start(ctx, user, "Fix bug", startDate)).Required()

	click := service.GratitudeClick{
		CallbackID:   "cb1",
		Data:         "g:0",
		MessageID:    1,
		FromUserName: "bob",
	}
	gt.NoError(t, svc.Gratitude(ctx, click)).Required()

	gt.Array(t, tr.edits).Length(1).Required()
	gt.String(t, tr.edits[0].Text).Equal("@alice Fix bug (in progress)\ngratitude from @bob")
	gt.String(t, buttonData(t, tr.edits[0].Markup)).Equal("g:1")
	gt.Array(t, tr.answers).Length(1)

	// a second click by the same user raises the score but not the list
	click.CallbackID = "cb2"
	click.Data = "g:1"
	gt.NoError(t, svc.Gratitude(ctx, click)).Required()

	gt.String(t, tr.edits[1].Text).Equal("@alice Fix bug (in progress)\ngratitude from @bob")
	gt.String(t, buttonData(t, tr.edits[1].Markup)).Equal("g:2")

	// a different user grows the list, keeping first-seen order
	click.CallbackID = "cb3"
	click.Data = "g:2"
	click.FromUserName = "carol"
	gt.NoError(t, svc.Gratitude(ctx, click)).Required()

	gt.String(t, tr.edits[2].Text).Equal("@alice Fix bug (in progress)\ngratitude from @bob @carol")
	gt.String(t, buttonData(t, tr.edits[2].Markup)).Equal("g:3")

	rec, err := store.GetByChannelMessageID(ctx, 1)
	gt.NoError(t, err).Required()
	gt.Value(t, rec.Score).Equal(3)
	gt.Value(t, rec.Givers).Equal([]string{"@bob", "@carol"})
}

func TestGratitudeFallsBackToTextSurgery(t *testing.T) {
	svc, tr, _ := newActivityFixture(t)
	ctx := context.Background()

	text := "@alice Fix bug (in progress)\ngratitude from @bob"
	entities := []models.MessageEntity{
		{Type: models.MessageEntityTypeMention, Offset: 0, Length: 6},
		{Type: models.MessageEntityTypeMention, Offset: 44, Length: 4},
	}

	err := svc.Gratitude(ctx, service.GratitudeClick{
		CallbackID:   "cb1",
		Data:         "g:4",
		MessageID:    77,
		MessageText:  text,
		Entities:     entities,
		FromUserName: "carol",
	})
	gt.NoError(t, err).Required()

	gt.Array(t, tr.edits).Length(1).Required()
	gt.Value(t, tr.edits[0].MessageID).Equal(77)
	gt.String(t, tr.edits[0].Text).Equal("@alice Fix bug (in progress)\ngratitude from @bob @carol")
	gt.Bool(t, tr.edits[0].Markup == nil).True()

	gt.Array(t, tr.markupEdits).Length(1).Required()
	gt.String(t, buttonData(t, tr.markupEdits[0].Markup)).Equal("g:5")
}

func TestGratitudeOnFinishedActivity(t *testing.T) {
	svc, tr, store := newActivityFixture(t)
	ctx := context.Background()

	rec := &domain.Activity{
		ID:               uuid.New(),
		UserName:         "alice",
		Status:           "Fix bug",
		Phase:            domain.PhaseFinished,
		ChannelMessageID: 1,
	}
	gt.NoError(t, store.Create(ctx, rec)).Required()

	err := svc.Gratitude(ctx, service.GratitudeClick{Data: "g:0", MessageID: 1, FromUserName: "bob"})
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, domain.ErrActivityFinished)).True()
	gt.Array(t, tr.edits).Length(0)
}

func TestGratitudeRejectsWrongPayload(t *testing.T) {
	svc, _, _ := newActivityFixture(t)
	ctx := context.Background()

	err := svc.Gratitude(ctx, service.GratitudeClick{Data: "f:1:2"})
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, domain.ErrMalformedCallback)).True()

	err = svc.Gratitude(ctx, service.GratitudeClick{Data: "z:1"})
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, domain.ErrUnsupportedIntent)).True()
}

func TestFinishRewritesBothCopies(t *testing.T) {
	svc, tr, store := newActivityFixture(t)
	ctx := context.Background()
	user := alice()
	gt.NoError(t, store.AddUser(ctx, user)).Required()
	gt.NoError(t, svc.Start(ctx, user, "Fix bug", startDate)).Required()

	click := service.FinishClick{
		CallbackID:   "cb1",
		Data:         "f:1700000000:1",
		ChatID:       10,
		MessageID:    2,
		MessageText:  "Fix bug (in progress)",
		FromUserName: "alice",
	}
	gt.NoError(t, svc.Finish(ctx, click)).Required()

	gt.Array(t, tr.answers).Length(1).Required()
	gt.String(t, tr.answers[0].Text).Equal("Well done, alice! Your activity took 1 hour")

	gt.Array(t, tr.edits).Length(2).Required()
	gt.Value(t, tr.edits[0].ChatID).Equal(any(int64(10)))
	gt.Value(t, tr.edits[0].MessageID).Equal(2)
	gt.String(t, tr.edits[0].Text).Equal("@alice Fix bug (spent 1 hour)")
	gt.Value(t, tr.edits[1].ChatID).Equal(any("@team"))
	gt.Value(t, tr.edits[1].MessageID).Equal(1)
	gt.String(t, tr.edits[1].Text).Equal("@alice Fix bug (spent 1 hour)")

	rec, err := store.GetByPrivateMessageID(ctx, 2)
	gt.NoError(t, err).Required()
	gt.Value(t, rec.Phase).Equal(domain.PhaseFinished)

	// a second click changes nothing
	click.CallbackID = "cb2"
	err = svc.Finish(ctx, click)
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, domain.ErrActivityFinished)).True()
	gt.Array(t, tr.edits).Length(2)
	gt.Array(t, tr.answers).Length(1)
}

func TestFinishFallsBackToPayload(t *testing.T) {
	svc, tr, _ := newActivityFixture(t)
	svc.Now = func() time.Time { return time.Unix(startDate+7200, 0) }
	ctx := context.Background()

	err := svc.Finish(ctx, service.FinishClick{
		CallbackID:   "cb1",
		Data:         "f:1700000000:42",
		ChatID:       10,
		MessageID:    5,
		MessageText:  "Ship release (in progress)",
		FromUserName: "alice",
	})
	gt.NoError(t, err).Required()

	gt.Array(t, tr.edits).Length(2).Required()
	gt.Value(t, tr.edits[0].MessageID).Equal(5)
	gt.String(t, tr.edits[0].Text).Equal("@alice Ship release (spent 2 hours)")
	gt.Value(t, tr.edits[1].ChatID).Equal(any("@team"))
	gt.Value(t, tr.edits[1].MessageID).Equal(42)

	// the rewritten message has no in-progress marker left, so a second
	// click is rejected as malformed
	err = svc.Finish(ctx, service.FinishClick{
		CallbackID:   "cb2",
		Data:         "f:1700000000:42",
		ChatID:       10,
		MessageID:    5,
		MessageText:  "@alice Ship release (spent 2 hours)",
		FromUserName: "alice",
	})
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, domain.ErrMalformedCallback)).True()
	gt.Array(t, tr.edits).Length(2)
}
