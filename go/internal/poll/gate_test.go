package poll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_SameTokenRendersOnce(t *testing.T) {
	session := NewSession(DefaultConfig())
	gate := NewGate(session)

	assert.True(t, gate.ShouldRender("s1"))
	assert.False(t, gate.ShouldRender("s1"))
	assert.Equal(t, "s1", session.Token())

	assert.True(t, gate.ShouldRender("s2"))
	assert.False(t, gate.ShouldRender("s2"))
}

func TestGate_EmptyToken(t *testing.T) {
	gate := NewGate(NewSession(DefaultConfig()))

	// nothing rendered yet: render without storing anything
	assert.True(t, gate.ShouldRender(""))
	assert.True(t, gate.ShouldRender(""))

	assert.True(t, gate.ShouldRender("s1"))
	assert.False(t, gate.ShouldRender(""))
	assert.False(t, gate.ShouldRender("s1"))
}

func TestResult_Err(t *testing.T) {
	assert.NoError(t, Success([]byte(`{}`)).Err())

	var httpErr *HTTPError
	assert.ErrorAs(t, HTTPFailure(404, "Not Found").Err(), &httpErr)
	assert.Equal(t, 404, httpErr.Status)

	var transportErr *TransportError
	assert.ErrorAs(t, TransportFailure(assert.AnError).Err(), &transportErr)
	assert.ErrorIs(t, transportErr, assert.AnError)

	var malformed *MalformedError
	assert.ErrorAs(t, MalformedFailure(assert.AnError).Err(), &malformed)
}
