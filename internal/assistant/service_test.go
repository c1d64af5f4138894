package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eportaro/langchain-waha-flaskapi/internal/history"
	"github.com/eportaro/langchain-waha-flaskapi/internal/leads"
	"github.com/eportaro/langchain-waha-flaskapi/internal/media"
	"github.com/eportaro/langchain-waha-flaskapi/internal/profile"
)

type fakeResponder struct {
	reply  string
	calls  int
	panics bool
}

func (f *fakeResponder) Respond(ctx context.Context, turns []history.Turn, prof profile.Profile, current string) string {
	f.calls++
	if f.panics {
		panic("responder exploded")
	}
	return f.reply
}

type fakePipeline struct {
	note  string
	err   error
	calls int
	last  media.Input
}

func (f *fakePipeline) Run(ctx context.Context, input media.Input) (string, error) {
	f.calls++
	f.last = input
	if f.err != nil {
		return "", f.err
	}
	return f.note, nil
}

type recordingRepo struct {
	created []*leads.CreateLeadRequest
	err     error
}

func (r *recordingRepo) Create(ctx context.Context, req *leads.CreateLeadRequest) (*leads.Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if r.err != nil {
		return nil, r.err
	}
	r.created = append(r.created, req)
	return &leads.Lead{ID: "lead-1", Name: req.Name, Email: req.Email, Program: req.Program}, nil
}

func (r *recordingRepo) GetByID(ctx context.Context, id string) (*leads.Lead, error) {
	return nil, leads.ErrLeadNotFound
}

type recordingNotifier struct {
	calls int
	err   error
}

func (n *recordingNotifier) AdvisorContact(ctx context.Context, name, email, program string) error {
	n.calls++
	return n.err
}

type fixture struct {
	svc       *Service
	responder *fakeResponder
	pipeline  *fakePipeline
	repo      *recordingRepo
	notifier  *recordingNotifier
}

func newFixture() *fixture {
	f := &fixture{
		responder: &fakeResponder{reply: "respuesta generada"},
		pipeline:  &fakePipeline{note: "nota del video"},
		repo:      &recordingRepo{},
		notifier:  &recordingNotifier{},
	}
	f.svc = NewService(
		history.NewNormalizer(nil),
		profile.NewExtractor(profile.DefaultCatalogs(nil, nil), nil),
		f.responder,
		f.pipeline,
		f.repo,
		f.notifier,
		nil,
		nil,
	)
	return f
}

func rawRow(body string, isUser bool) history.RawMessage {
	return history.RawMessage{Body: &body, IsUser: isUser}
}

func TestRouteQuestionWithEmptyHistory(t *testing.T) {
	f := newFixture()

	reply := f.svc.HandleMessage(context.Background(), InboundMessage{ChatID: "c1", Text: "¿Qué programas ofrecen?"}, nil)

	assert.Equal(t, "respuesta generada", reply)
	assert.Equal(t, 1, f.responder.calls)
	assert.Equal(t, 0, f.pipeline.calls)
	assert.Empty(t, f.repo.created)
}

func TestMediaBeatsQuestionPriority(t *testing.T) {
	f := newFixture()

	reply := f.svc.HandleMessage(context.Background(), InboundMessage{
		ChatID: "c1",
		Text:   "¿me resumes esto? https://youtu.be/abc123xyz_9",
	}, nil)

	assert.Equal(t, "nota del video", reply)
	assert.Equal(t, 1, f.pipeline.calls)
	assert.Equal(t, 0, f.responder.calls, "media must win over Q&A")
	assert.Equal(t, media.KindRemoteVideo, f.pipeline.last.Kind)
}

func TestMediaBeatsLeadPriority(t *testing.T) {
	f := newFixture()

	_ = f.svc.HandleMessage(context.Background(), InboundMessage{
		ChatID: "c1",
		Text:   "quiero hablar con un asesor sobre https://youtu.be/abc123xyz_9",
	}, nil)

	assert.Equal(t, 1, f.pipeline.calls)
	assert.Empty(t, f.repo.created)
}

func TestLeadCaptureAsksOnlyForMissingFields(t *testing.T) {
	f := newFixture()
	raw := []history.RawMessage{
		rawRow("mi nombre es Ana", true),
	}

	reply := f.svc.HandleMessage(context.Background(), InboundMessage{
		ChatID: "c1",
		Text:   "quiero hablar con un asesor",
	}, raw)

	assert.Contains(t, reply, "correo electrónico")
	assert.Contains(t, reply, "programa de interés")
	assert.NotContains(t, reply, "nombre completo", "known fields must not be re-requested")
	assert.Empty(t, f.repo.created)
	assert.Equal(t, 0, f.notifier.calls)
}

func TestLeadCaptureContinuesAcrossTurns(t *testing.T) {
	f := newFixture()
	// Previous assistant turn asked for data; the new message carries the
	// remaining fields without repeating the advisor phrase.
	raw := []history.RawMessage{
		rawRow("quiero hablar con un asesor", true),
		rawRow("¡Con gusto! Para conectarte con un asesor necesito algunos datos. ¿Me puedes compartir tu nombre completo, correo electrónico y programa de interés? 😊", false),
	}

	reply := f.svc.HandleMessage(context.Background(), InboundMessage{
		ChatID: "c1",
		Text:   "mi nombre es Ana, mi correo es ana@example.com y me interesa data analyst",
	}, raw)

	require.Len(t, f.repo.created, 1)
	assert.Equal(t, "Ana", f.repo.created[0].Name)
	assert.Equal(t, "ana@example.com", f.repo.created[0].Email)
	assert.Equal(t, "data analyst", f.repo.created[0].Program)
	assert.Equal(t, 1, f.notifier.calls)
	assert.Contains(t, reply, "Ana")
}

func TestLeadRegistrationExactlyOnceThenNotify(t *testing.T) {
	f := newFixture()
	raw := []history.RawMessage{
		rawRow("mi nombre es Luis", true),
		rawRow("mi correo es luis@example.com", true),
		rawRow("me interesa machine learning", true),
	}

	_ = f.svc.HandleMessage(context.Background(), InboundMessage{
		ChatID: "c1",
		Text:   "quiero hablar con un asesor",
	}, raw)

	require.Len(t, f.repo.created, 1)
	assert.Equal(t, 1, f.notifier.calls)
}

func TestLeadRegistrationFailureBlocksNotification(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("db down")
	raw := []history.RawMessage{
		rawRow("mi nombre es Luis", true),
		rawRow("mi correo es luis@example.com", true),
		rawRow("me interesa machine learning", true),
	}

	reply := f.svc.HandleMessage(context.Background(), InboundMessage{
		ChatID: "c1",
		Text:   "quiero hablar con un asesor",
	}, raw)

	assert.Equal(t, 0, f.notifier.calls, "failed registration must prevent notification")
	assert.Contains(t, reply, "no pude registrar")
}

func TestLeadNotificationFailureStillConfirms(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp down")
	raw := []history.RawMessage{
		rawRow("mi nombre es Luis", true),
		rawRow("mi correo es luis@example.com", true),
		rawRow("me interesa machine learning", true),
	}

	reply := f.svc.HandleMessage(context.Background(), InboundMessage{
		ChatID: "c1",
		Text:   "quiero hablar con un asesor",
	}, raw)

	require.Len(t, f.repo.created, 1)
	assert.Contains(t, reply, "Luis")
}

func TestMediaStageFailureNamesTheStage(t *testing.T) {
	f := newFixture()
	f.pipeline.err = &media.StageError{Stage: media.StageTranscribe, Err: media.ErrNoOutput}

	reply := f.svc.HandleMessage(context.Background(), InboundMessage{
		ChatID: "c1",
		Text:   "https://youtu.be/abc123xyz_9",
	}, nil)

	assert.Contains(t, reply, "la transcripción")
	assert.NotContains(t, reply, "descarga")
	assert.NotContains(t, reply, "nota")
}

func TestPanicBecomesFailureReply(t *testing.T) {
	f := newFixture()
	f.responder.panics = true

	reply := f.svc.HandleMessage(context.Background(), InboundMessage{ChatID: "c1", Text: "hola"}, nil)

	assert.Contains(t, reply, "Ocurrió un error al procesar tu mensaje")
	assert.Contains(t, reply, "responder exploded")
}

func TestHandleMessageIsIdempotentForPureQA(t *testing.T) {
	f := newFixture()
	raw := []history.RawMessage{
		rawRow("mi nombre es Ana", true),
		rawRow("¡Hola Ana!", false),
	}
	msg := InboundMessage{ChatID: "c1", Text: "¿cuánto dura el programa?"}

	first := f.svc.HandleMessage(context.Background(), msg, raw)
	second := f.svc.HandleMessage(context.Background(), msg, raw)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, f.responder.calls)
	assert.Equal(t, 0, f.pipeline.calls)
	assert.Empty(t, f.repo.created)
}

func TestAdvisorIntentPhrases(t *testing.T) {
	assert.True(t, containsAdvisorIntent("quiero hablar con un ASESOR"))
	assert.True(t, containsAdvisorIntent("me gustaría información personalizada"))
	assert.False(t, containsAdvisorIntent("¿qué cursos tienen?"))
}

func TestAwaitingLeadDataChecksLastAssistantTurn(t *testing.T) {
	turns := []history.Turn{
		{Role: history.RoleAssistant, Content: "¡Con gusto! Para conectarte con un asesor necesito algunos datos."},
		{Role: history.RoleUser, Content: "mi correo es a@b.com"},
	}
	assert.True(t, awaitingLeadData(turns))

	turns = []history.Turn{
		{Role: history.RoleAssistant, Content: "¡Hola! ¿En qué te ayudo?"},
		{Role: history.RoleUser, Content: "hola"},
	}
	assert.False(t, awaitingLeadData(turns))
}
