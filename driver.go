package bolt

import (
	"encoding/binary"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/graphwire/bolt/config"
	"github.com/graphwire/bolt/errors"
	"github.com/graphwire/bolt/log"
	"github.com/graphwire/bolt/stream"
)

var (
	magicPreamble = []byte{0x60, 0x60, 0xB0, 0x17}
	// The handshake proposes up to four versions, most preferred first;
	// unused slots stay zero.
	supportedVersions = []byte{
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
)

// Version1 is the only protocol version this client speaks.
const Version1 uint32 = 1

const (
	version  = "1.0"
	clientID = "GraphwireBolt/" + version
)

// DialFunc obtains the initial byte stream for a connection. The default
// dials TCP with the configured timeout on every read and write.
type DialFunc func(addr string, timeout time.Duration) (stream.Stream, error)

// Driver opens connections.
type Driver struct {
	cfg *config.Config

	// Dial may be replaced to layer TLS, proxies or test doubles under
	// the connection.
	Dial DialFunc
}

// NewDriver creates a driver with the given config. A nil config uses
// the defaults.
func NewDriver(cfg *config.Config) *Driver {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Driver{
		cfg: cfg,
		Dial: func(addr string, timeout time.Duration) (stream.Stream, error) {
			return stream.Dial(addr, timeout)
		},
	}
}

// Open connects to the given bolt:// URI, negotiates the protocol
// version and authenticates. Credentials embedded in the URI override
// the configured ones.
func (d *Driver) Open(uri string) (*Conn, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeInvalidURI, "Couldn't parse connection string %s", uri)
	}
	if strings.ToLower(u.Scheme) != "bolt" {
		return nil, errors.WithCode(errors.CodeUnknownURIScheme,
			"Unsupported connection string scheme: %s. Driver only supports 'bolt' scheme.", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.WithCode(errors.CodeInvalidURI, "Connection string %s has no host", uri)
	}

	auth := d.cfg.Auth
	if u.User != nil {
		auth.Scheme = "basic"
		auth.Principal = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			auth.Credentials = pw
		}
	}

	strm, err := d.Dial(u.Host, time.Duration(d.cfg.Timeout))
	if err != nil {
		return nil, errors.Wrap(err, "An error occurred connecting to %s", u.Host)
	}

	agreed, err := handshake(strm)
	if err != nil {
		strm.Close()
		return nil, err
	}

	conn := newConn(strm, agreed, d.cfg)
	if err := conn.init(auth); err != nil {
		strm.Close()
		return nil, err
	}
	log.Infof("Connected to %s with protocol version %d", u.Host, agreed)
	return conn, nil
}

// handshake writes the magic preamble and the proposed versions in one
// gathered write, then reads the server's agreed version. Anything other
// than version 1 is a negotiation failure; the caller still owns (and
// must close) the stream.
func handshake(strm stream.Stream) (uint32, error) {
	if _, err := strm.WriteBuffers([][]byte{magicPreamble, supportedVersions}); err != nil {
		return 0, errors.Wrap(err, "An error occurred writing the handshake")
	}
	if err := strm.Flush(); err != nil {
		return 0, errors.Wrap(err, "An error occurred flushing the handshake")
	}

	var agreedBuf [4]byte
	if _, err := io.ReadFull(strm, agreedBuf[:]); err != nil {
		return 0, errors.Wrap(err, "An error occurred reading the agreed version")
	}
	agreed := binary.BigEndian.Uint32(agreedBuf[:])
	if agreed != Version1 {
		log.Errorf("No supported protocol version agreed: server offered %d", agreed)
		return 0, errors.WithCode(errors.CodeProtocolNegotiationFailed,
			"Server agreed to unsupported protocol version %d", agreed)
	}
	return agreed, nil
}
