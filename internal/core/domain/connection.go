package domain

import "fmt"

// Connection holds the bitcoind endpoint the workflow talks to. The password
// is never serialized.
type Connection struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"-"`
	Connected bool   `json:"connected"`
	LastError string `json:"lastError,omitempty"`
}

// URL ...
func (c Connection) URL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// MarkConnected ...
func (c *Connection) MarkConnected() {
	c.Connected = true
	c.LastError = ""
}

// MarkDisconnected records the reason why the connection was lost, if any.
func (c *Connection) MarkDisconnected(err error) {
	c.Connected = false
	c.LastError = ""
	if err != nil {
		c.LastError = err.Error()
	}
}
