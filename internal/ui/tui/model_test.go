package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/repurpose-client/internal/credential"
	"github.com/Checker-Finance/repurpose-client/internal/render"
	"github.com/Checker-Finance/repurpose-client/internal/repurpose"
	"github.com/Checker-Finance/repurpose-client/internal/repurpose/repurposetest"
)

func newTestModel(t *testing.T) (Model, *repurposetest.Server, *credential.MemoryStore) {
	t.Helper()
	srv := repurposetest.NewServer(t)
	store := credential.NewMemoryStore()
	session := credential.NewSession(zap.NewNop(), store, credential.DefaultKey)
	client := repurpose.NewClient(zap.NewNop(), srv.URL, srv.Client())
	svc := repurpose.NewService(zap.NewNop(), client, session, nil, nil, repurpose.Options{})
	return New(context.Background(), svc), srv, store
}

func typeText(m Model, s string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

// finish runs the pending service call and feeds its result back.
func finish(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(resultMsg)
	require.True(t, ok, "expected resultMsg, got %T", msg)
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_TabCyclesFocus(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Equal(t, fieldEmail, m.focus)

	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, fieldPassword, m.focus)
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, fieldText, m.focus)
	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, fieldEmail, m.focus)
	m, _ = press(m, tea.KeyShiftTab)
	assert.Equal(t, fieldText, m.focus)
}

func TestModel_LoginThenRepurpose(t *testing.T) {
	m, srv, store := newTestModel(t)

	m = typeText(m, "a@b.com")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "pw")
	assert.Equal(t, "a@b.com", m.inputs[fieldEmail].Value())
	assert.Equal(t, "pw", m.inputs[fieldPassword].Value())

	m, cmd := press(m, tea.KeyEnter)
	assert.True(t, m.busy)
	m = finish(t, m, cmd)

	assert.False(t, m.busy)
	assert.Equal(t, repurpose.MsgLoginSuccess, m.notice)
	tok, ok, err := store.Get(context.Background(), credential.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "T1", tok)

	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "Hello world")
	m, cmd = press(m, tea.KeyEnter)
	m = finish(t, m, cmd)

	want, err := render.PrettyJSON([]byte(`{"posts":{"twitter":"Hello world #t"}}`))
	require.NoError(t, err)
	assert.Contains(t, want, `"twitter": "Hello world #t"`)
	assert.Contains(t, m.output.View(), `"twitter": "Hello world #t"`)
	assert.Len(t, srv.CallsTo("/repurpose"), 1)
}

func TestModel_LoginSendsFieldsUnchanged(t *testing.T) {
	m, srv, _ := newTestModel(t)

	m = typeText(m, " a@b.com ")
	m, _ = press(m, tea.KeyTab)
	m = typeText(m, " pw ")
	m, cmd := press(m, tea.KeyEnter)
	finish(t, m, cmd)

	calls := srv.CallsTo("/login")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"email":" a@b.com ","password":" pw "}`, string(calls[0].Body))
}

func TestModel_RepurposeWithoutLogin(t *testing.T) {
	m, srv, _ := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = finish(t, next.(Model), cmd)

	assert.Equal(t, repurpose.MsgLoginFirst, m.notice)
	assert.Empty(t, srv.Calls())
}

func TestModel_RejectedLoginShowsDetail(t *testing.T) {
	m, srv, _ := newTestModel(t)
	srv.Reply("/login", 401, `{"detail":"Invalid credentials"}`)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = finish(t, next.(Model), cmd)

	assert.Equal(t, "Invalid credentials", m.notice)
	assert.Contains(t, m.View(), "Invalid credentials")
}

func TestModel_IgnoresSubmitWhileBusy(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, cmd := press(m, tea.KeyEnter)
	require.NotNil(t, cmd)
	_, cmd = press(m, tea.KeyEnter)
	assert.Nil(t, cmd)
}

func TestModel_TransportErrorIsShown(t *testing.T) {
	m, srv, _ := newTestModel(t)
	srv.Close()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = finish(t, next.(Model), cmd)

	assert.True(t, m.noticeErr)
	assert.Contains(t, m.notice, "Error: login")
}

func TestModel_QuitKey(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
