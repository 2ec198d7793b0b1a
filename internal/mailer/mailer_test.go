package mailer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	m := NewSMTPMailer("localhost", 2525, "", "", "Movie Booking <no-reply@example.com>")

	msg, err := m.newMessage("jane@example.com", "ticket_confirmed.tmpl", map[string]any{
		"name":          "Jane",
		"reservationID": 42,
		"movieTitle":    "Inception",
		"grandTotal":    "₹550.00",
	}, []Attachment{{Filename: "ticket-42.pdf", Data: []byte("%PDF-1.3")}})
	require.NoError(t, err)

	assert.Equal(t, []string{"jane@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Your ticket for Inception is confirmed"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `filename="ticket-42.pdf"`)
}

func TestNewMessageUnknownTemplate(t *testing.T) {
	m := NewSMTPMailer("localhost", 2525, "", "", "no-reply@example.com")

	_, err := m.newMessage("jane@example.com", "missing.tmpl", nil, nil)

	assert.Error(t, err)
}

func TestMockMailer(t *testing.T) {
	m := NewMockMailer()

	require.NoError(t, m.Send("jane@example.com", "user_welcome.tmpl", nil))
	require.Len(t, m.GetSentEmails(), 1)
	assert.Equal(t, "user_welcome.tmpl", m.GetSentEmails()[0].TemplateFile)

	m.Err = assert.AnError
	assert.ErrorIs(t, m.Send("jane@example.com", "user_welcome.tmpl", nil), assert.AnError)
	assert.Len(t, m.GetSentEmails(), 1)

	m.Reset()
	assert.Empty(t, m.GetSentEmails())
}
