package email

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// Client submits mail over SMTP with TLS. One message per recipient,
// plain-text body.
type Client struct {
	host     string
	port     int
	username string
	password string
	from     string
}

type Option func(*Client)

func WithFrom(from string) Option {
	return func(c *Client) {
		c.from = from
	}
}

func NewClient(host string, port int, username, password string, opts ...Option) *Client {
	c := &Client{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     username,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the client has enough settings to send.
func (c *Client) Configured() bool {
	return c.host != "" && c.username != "" && c.password != ""
}

// Send submits one plain-text message to a single recipient.
func (c *Client) Send(to, subject, body string) error {
	if !c.Configured() {
		return fmt.Errorf("mail client not configured: missing host or credentials")
	}

	addr := net.JoinHostPort(c.host, strconv.Itoa(c.port))
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: c.host})
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}

	client, err := smtp.NewClient(conn, c.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", c.username, c.password, c.host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(c.from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	msg := strings.Join([]string{
		"From: " + c.from,
		"To: " + to,
		"Subject: " + subject,
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return client.Quit()
}
