package discovery

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/grandcat/zeroconf"
)

func fastPolicy(retries uint64) backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), retries)
}

type fakeRegistrar struct {
	failures int
	calls    int
	instance string
	port     int
	text     []string
}

func (f *fakeRegistrar) register(instance, service, domain string, port int, text []string, _ []net.Interface) (*zeroconf.Server, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("socket busy")
	}
	if service != Service || domain != Domain {
		return nil, errors.New("wrong service")
	}
	f.instance, f.port, f.text = instance, port, text
	return nil, nil
}

func TestAdvertise_RetriesUntilRegistered(t *testing.T) {
	reg := &fakeRegistrar{failures: 2}
	text := TXT(map[string]string{"path": "/ws", "fc": "0.1"})

	ad, err := Advertise(context.Background(), "bench tuner", 8080, text,
		withRegister(reg.register), WithBackOff(fastPolicy(5)))
	if err != nil {
		t.Fatalf("Advertise() error = %v", err)
	}
	defer ad.Shutdown()

	if reg.calls != 3 {
		t.Fatalf("register calls = %d, want 3", reg.calls)
	}
	if ad.Instance() != "bench tuner" || ad.Port() != 8080 || reg.port != 8080 {
		t.Fatalf("advertisement = %q:%d, registered port %d", ad.Instance(), ad.Port(), reg.port)
	}
	if len(reg.text) != 2 || reg.text[0] != "fc=0.1" || reg.text[1] != "path=/ws" {
		t.Fatalf("TXT = %v, want [fc=0.1 path=/ws]", reg.text)
	}
}

func TestAdvertise_GivesUp(t *testing.T) {
	reg := &fakeRegistrar{failures: 100}

	_, err := Advertise(context.Background(), "x", 8080, nil,
		withRegister(reg.register), WithBackOff(fastPolicy(2)))
	if err == nil {
		t.Fatal("Advertise() error = nil, want failure")
	}
	if reg.calls != 3 {
		t.Fatalf("register calls = %d, want 3", reg.calls)
	}
}

func TestAdvertise_Cancelled(t *testing.T) {
	reg := &fakeRegistrar{failures: 100}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Advertise(ctx, "x", 8080, nil, withRegister(reg.register), WithBackOff(fastPolicy(50))); err == nil {
		t.Fatal("Advertise() error = nil, want failure")
	}
	if reg.calls > 1 {
		t.Fatalf("register calls = %d after cancel, want at most 1", reg.calls)
	}
}

func TestAdvertise_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		if _, err := Advertise(context.Background(), "x", port, nil); !errors.Is(err, ErrInvalidPort) {
			t.Fatalf("Advertise(port %d) error = %v, want ErrInvalidPort", port, err)
		}
	}
}

func TestHostFromEntry(t *testing.T) {
	e := zeroconf.NewServiceEntry(`bench\ tuner`, Service, Domain)
	e.HostName = "bench.local."
	e.Port = 8080
	e.AddrIPv4 = []net.IP{net.IPv4(192, 168, 1, 2)}
	e.Text = []string{"path=/ws"}

	h := hostFromEntry(e)
	if h.Instance != "bench tuner" || h.Port != 8080 || len(h.Addresses) != 1 || h.Text[0] != "path=/ws" {
		t.Fatalf("hostFromEntry() = %+v", h)
	}
}

func TestTXT(t *testing.T) {
	got := TXT(map[string]string{"b": "2", "a": "1"})
	if len(got) != 2 || got[0] != "a=1" || got[1] != "b=2" {
		t.Fatalf("TXT() = %v, want [a=1 b=2]", got)
	}
	if got := TXT(nil); len(got) != 0 {
		t.Fatalf("TXT(nil) = %v, want empty", got)
	}
}
