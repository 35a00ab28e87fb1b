package xmpp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerName(t *testing.T) {
	assert.Equal(t, "example.org", serverName("bot@example.org"))
	assert.Equal(t, "example.org", serverName("example.org"))
}

func TestEnabled(t *testing.T) {
	var nilX *Xmpp
	assert.False(t, nilX.Enabled())
	assert.False(t, New(Config{Jid: "bot@example.org"}).Enabled())
	assert.True(t, New(Config{Jid: "bot@example.org", Password: "secret", To: "captain@example.org"}).Enabled())
}

func TestSendNotConfigured(t *testing.T) {
	assert.ErrorIs(t, New(Config{}).Send("hello"), ErrNotConfigured)
}

func TestOptionsDefaultHost(t *testing.T) {
	o := New(Config{Jid: "bot@example.org"}).options()
	assert.Equal(t, "example.org", o.Host)
	assert.Equal(t, "bot@example.org", o.User)

	o = New(Config{Host: "chat.example.org:5222", Jid: "bot@example.org"}).options()
	assert.Equal(t, "chat.example.org:5222", o.Host)
}

func TestOptionsOwnTLSConfig(t *testing.T) {
	x := New(Config{Jid: "bot@example.org"})
	a, b := x.options(), x.options()
	if assert.NotNil(t, a.TLSConfig) {
		assert.True(t, a.TLSConfig.InsecureSkipVerify)
		assert.Equal(t, "example.org", a.TLSConfig.ServerName)
	}
	assert.NotSame(t, a.TLSConfig, b.TLSConfig)
}

func TestSendConcurrently(t *testing.T) {
	x := New(Config{Host: "127.0.0.1:1", Jid: "bot@example.org", Password: "secret", To: "captain@example.org"})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Error(t, x.Send("hi"))
		}()
	}
	wg.Wait()
}
