package mail

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/tutoring-site/pkg/config"
)

func TestRenderHeadersAndBody(t *testing.T) {
	msg := Message{
		From:    "site@example.com",
		To:      []string{"inbox@example.com"},
		ReplyTo: "parent@example.com",
		Subject: "Contact message from Budi\r\nBcc: x@y",
		Body:    "line one\nline two",
	}
	out := string(render(msg, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	assert.Contains(t, out, "To: inbox@example.com\r\n")
	assert.Contains(t, out, "Reply-To: parent@example.com\r\n")
	assert.Contains(t, out, "Subject: Contact message from Budi  Bcc: x@y\r\n")
	assert.NotContains(t, out, "\r\nBcc:")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\nline one\r\nline two"))
}

func TestRenderEncodesNonASCIISubject(t *testing.T) {
	subject := "Contact message from Siti Nurhaliza Ñúñez"
	out := string(render(Message{To: []string{"inbox@example.com"}, Subject: subject}, time.Now()))

	var line string
	for _, l := range strings.Split(out, "\r\n") {
		if strings.HasPrefix(l, "Subject: ") {
			line = strings.TrimPrefix(l, "Subject: ")
		}
	}
	assert.True(t, strings.HasPrefix(line, "=?utf-8?q?"), line)
	decoded, err := new(mime.WordDecoder).DecodeHeader(line)
	require.NoError(t, err)
	assert.Equal(t, subject, decoded)
}

func TestConsoleTransportLogsMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	transport := NewConsoleTransport(zap.New(core))

	err := transport.Send(context.Background(), Message{To: []string{"a@example.com"}, Subject: "hi", Body: "body"})
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "hi", logs.All()[0].ContextMap()["subject"])
}

func TestTransportsRequireRecipients(t *testing.T) {
	for _, tr := range []Transport{
		NewConsoleTransport(nil),
		NewSMTPTransport("localhost", 25, "", "", time.Second),
		NewSendgridTransport("key", time.Second),
	} {
		assert.ErrorIs(t, tr.Send(context.Background(), Message{Subject: "x"}), ErrNoRecipients)
	}
}

func TestSendgridTransportPostsV3Payload(t *testing.T) {
	var payload map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	tr := NewSendgridTransport("sg-key", time.Second)
	tr.host = srv.URL

	err := tr.Send(context.Background(), Message{
		From:    "site@example.com",
		To:      []string{"inbox@example.com"},
		ReplyTo: "parent@example.com",
		Subject: "Contact message from Budi",
		Body:    "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer sg-key", auth)
	assert.Equal(t, "parent@example.com", payload["reply_to"].(map[string]interface{})["email"])
}

func TestSendgridTransportReportsRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	defer srv.Close()

	tr := NewSendgridTransport("bad", time.Second)
	tr.host = srv.URL

	err := tr.Send(context.Background(), Message{From: "a@example.com", To: []string{"b@example.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestNewTransportSelectsDriver(t *testing.T) {
	assert.IsType(t, &ConsoleTransport{}, NewTransport(config.MailConfig{Driver: config.MailDriverConsole}, nil))
	assert.IsType(t, &SendgridTransport{}, NewTransport(config.MailConfig{Driver: config.MailDriverSendgrid}, nil))
	assert.IsType(t, &SMTPTransport{}, NewTransport(config.MailConfig{Driver: config.MailDriverSMTP}, nil))
}
