package xmpp

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/mattn/go-xmpp"
	log "github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned by Send when jid, password or recipient is
// missing.
var ErrNotConfigured = errors.New("missing xmpp config")

type (
	// Config of the chat account fleet summaries are sent from.
	Config struct {
		Host     string
		Jid      string
		Password string
		To       string
	}

	Xmpp struct {
		Config Config
	}
)

func New(c Config) *Xmpp {
	return &Xmpp{Config: c}
}

func serverName(jid string) string {
	if i := strings.Index(jid, "@"); i >= 0 {
		return jid[i+1:]
	}
	return jid
}

func (x *Xmpp) Enabled() bool {
	return x != nil && len(x.Config.Jid) > 0 && len(x.Config.Password) > 0 && len(x.Config.To) > 0
}

func (x *Xmpp) options() xmpp.Options {
	host := x.Config.Host
	if len(host) == 0 {
		host = serverName(x.Config.Jid)
	}
	return xmpp.Options{
		Host:          host,
		User:          x.Config.Jid,
		Password:      x.Config.Password,
		NoTLS:         true,
		StartTLS:      true,
		Debug:         false,
		Session:       false,
		Status:        "xa",
		StatusMessage: "Watching the fleet",
		TLSConfig: &tls.Config{
			ServerName:         serverName(x.Config.Jid),
			InsecureSkipVerify: true,
		},
	}
}

// Send delivers one chat message and closes the connection.
func (x *Xmpp) Send(message string) error {
	if !x.Enabled() {
		return ErrNotConfigured
	}

	options := x.options()
	log.Debugf("Connecting to xmpp server %s as %s", options.Host, options.User)
	talk, err := options.NewClient()
	if err != nil {
		log.WithError(err).Error("Error connecting to xmpp server")
		return err
	}
	defer talk.Close()

	if _, err := talk.Send(xmpp.Chat{Remote: x.Config.To, Type: "chat", Text: message}); err != nil {
		log.WithError(err).Errorf("Error sending xmpp message to %s", x.Config.To)
		return err
	}
	return nil
}
