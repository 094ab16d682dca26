package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRenderMemberWelcome(t *testing.T) {
	data := NewMemberWelcomeData("Aros", "Ivett", "ivett@example.com", "https://aros.test/login",
		WithTime(time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)))
	require.Equal(t, MemberWelcome, data["Type"])

	subject, text, html, err := Render(MemberWelcome, data)
	require.NoError(t, err)
	require.Equal(t, "Welcome to Aros", subject)
	require.Contains(t, text, "Hi Ivett,")
	require.Contains(t, text, "https://aros.test/login")
	require.Contains(t, html, "ivett@example.com")
	require.Contains(t, html, "01 March 2024, 12:30")
}

func TestRenderDefaultsSiteName(t *testing.T) {
	subject, _, _, err := Render(MemberWelcome, NewMemberWelcomeData("", "Bob", "bob@example.com", ""))
	require.NoError(t, err)
	require.Equal(t, "Welcome to Aros", subject)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("does_not_exist", map[string]any{})
	require.Error(t, err)
}
