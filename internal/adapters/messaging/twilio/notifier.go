// Package twilio envía mensajes salientes de WhatsApp por la API REST de Twilio.
// Las respuestas al webhook van como TwiML; esto es para avisos fuera de una
// conversación (activación de la finca).
package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"finca-digital/internal/platform/httpclient"
)

var ErrNotConfigured = errors.New("twilio notifier not configured")

type Options struct {
	AccountSID string
	AuthToken  string
	From       string // whatsapp:+1415...
	BaseURL    string // https://api.twilio.com
}

type Notifier struct {
	http *httpclient.Client
	sid  string
	from string
}

// New valida las credenciales y arma el cliente con auth básica.
func New(opts Options, client *httpclient.Client) (*Notifier, error) {
	if opts.AccountSID == "" || opts.AuthToken == "" || opts.From == "" {
		return nil, ErrNotConfigured
	}
	if client == nil {
		client = httpclient.New(0)
	}
	authed := client.WithBasicAuth(opts.AccountSID, opts.AuthToken)
	if opts.BaseURL != "" {
		c, err := httpclient.NewWithBaseURL(opts.BaseURL, 0)
		if err != nil {
			return nil, err
		}
		authed.BaseURL = c.BaseURL
	}
	return &Notifier{
		http: authed,
		sid:  opts.AccountSID,
		from: opts.From,
	}, nil
}

type messageResponse struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

// Send devuelve el SID del mensaje creado.
func (n *Notifier) Send(ctx context.Context, to, body string) (string, error) {
	if n == nil {
		return "", ErrNotConfigured
	}
	to = strings.TrimSpace(to)
	if to == "" || strings.TrimSpace(body) == "" {
		return "", errors.New("twilio: recipient and body are required")
	}

	form := url.Values{}
	form.Set("From", n.from)
	form.Set("To", to)
	form.Set("Body", body)

	var out messageResponse
	path := fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", url.PathEscape(n.sid))
	if err := n.http.DoForm(ctx, "POST", path, form, &out); err != nil {
		return "", fmt.Errorf("twilio send to %s: %w", to, err)
	}
	return out.SID, nil
}
