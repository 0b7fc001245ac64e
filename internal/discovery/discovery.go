// Package discovery advertises a running tuner monitor over mDNS and
// browses for other instances on the local network.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/grandcat/zeroconf"

	"github.com/cwbudde/algo-sdr/internal/logging"
)

// Service and Domain identify tuner monitors.
const (
	Service = "_sdrtuner._tcp"
	Domain  = "local."
)

const defaultAttempts = 5

// ErrInvalidPort reports a port outside 1..65535.
var ErrInvalidPort = errors.New("discovery: invalid port")

type registerFunc func(instance, service, domain string, port int, text []string, ifaces []net.Interface) (*zeroconf.Server, error)

// Option configures Advertise.
type Option func(*advertiseConfig)

type advertiseConfig struct {
	log      logging.Logger
	register registerFunc
	policy   backoff.BackOff
}

// WithLogger sets the logger for registration attempts.
func WithLogger(l logging.Logger) Option {
	return func(c *advertiseConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithBackOff replaces the retry policy for registration.
func WithBackOff(b backoff.BackOff) Option {
	return func(c *advertiseConfig) {
		if b != nil {
			c.policy = b
		}
	}
}

func withRegister(fn registerFunc) Option {
	return func(c *advertiseConfig) {
		c.register = fn
	}
}

// Advertisement is a live mDNS registration.
type Advertisement struct {
	server   *zeroconf.Server
	instance string
	port     int
}

// Instance returns the advertised instance name.
func (a *Advertisement) Instance() string { return a.instance }

// Port returns the advertised port.
func (a *Advertisement) Port() int { return a.port }

// Shutdown withdraws the registration.
func (a *Advertisement) Shutdown() {
	if a != nil && a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

// Advertise registers instance on port with the given TXT records.
// Registration is retried with exponential back-off until it succeeds,
// the policy gives up or ctx is cancelled.
func Advertise(ctx context.Context, instance string, port int, text []string, opts ...Option) (*Advertisement, error) {
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}

	cfg := advertiseConfig{
		log:      logging.Default(),
		register: zeroconf.Register,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.policy == nil {
		cfg.policy = backoff.WithMaxRetries(backoff.NewExponentialBackOff(), defaultAttempts)
	}
	log := cfg.log.With(logging.F("component", "discovery"))

	var server *zeroconf.Server
	op := func() error {
		s, err := cfg.register(instance, Service, Domain, port, text, nil)
		if err != nil {
			return err
		}
		server = s
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Warn("mdns registration failed", logging.Err(err), logging.F("retry_in", wait))
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(cfg.policy, ctx), notify); err != nil {
		return nil, fmt.Errorf("discovery: register %q: %w", instance, err)
	}

	log.Info("advertising", logging.F("instance", instance), logging.F("service", Service), logging.F("port", port))
	return &Advertisement{server: server, instance: instance, port: port}, nil
}

// Host is a discovered tuner monitor.
type Host struct {
	Instance  string
	Hostname  string
	Addresses []net.IP
	Port      int
	Text      []string
}

// Browse collects advertised monitors until ctx is done.
func Browse(ctx context.Context) ([]Host, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(map[string]Host)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case e, ok := <-entries:
				if !ok {
					return
				}
				if e == nil {
					continue
				}
				h := hostFromEntry(e)
				found[fmt.Sprintf("%s|%d", h.Hostname, h.Port)] = h
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, Service, Domain, entries); err != nil {
		return nil, fmt.Errorf("discovery: browse: %w", err)
	}
	<-done

	out := make([]Host, 0, len(found))
	for _, h := range found {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Instance < out[j].Instance })
	return out, nil
}

func hostFromEntry(e *zeroconf.ServiceEntry) Host {
	addrs := make([]net.IP, 0, len(e.AddrIPv4)+len(e.AddrIPv6))
	addrs = append(addrs, e.AddrIPv4...)
	addrs = append(addrs, e.AddrIPv6...)

	return Host{
		Instance:  cleanInstance(e.Instance),
		Hostname:  e.HostName,
		Addresses: addrs,
		Port:      e.Port,
		Text:      append([]string(nil), e.Text...),
	}
}

// cleanInstance removes DNS-SD escapes: "\ " becomes " ".
func cleanInstance(s string) string {
	return strings.ReplaceAll(s, `\ `, " ")
}

// TXT renders key=value records in key order.
func TXT(kv map[string]string) []string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+kv[k])
	}
	return out
}
