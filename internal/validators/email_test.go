package validators

import (
	"context"
	"errors"
	"net"
	"testing"
)

type fakeResolver struct {
	mx  map[string][]*net.MX
	ips map[string][]net.IPAddr
}

func (f fakeResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	if mx, ok := f.mx[name]; ok {
		return mx, nil
	}
	return nil, errors.New("no such host")
}

func (f fakeResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if ips, ok := f.ips[host]; ok {
		return ips, nil
	}
	return nil, errors.New("no such host")
}

func TestIsEmailDomainValid(t *testing.T) {
	c := &EmailDomainChecker{Resolver: fakeResolver{
		mx:  map[string][]*net.MX{"mail.ma": {{Host: "mx.mail.ma.", Pref: 10}}},
		ips: map[string][]net.IPAddr{"web.ma": {{IP: net.IPv4(10, 0, 0, 1)}}},
	}}
	ctx := context.Background()

	tests := map[string]bool{
		"a@mail.ma":    true,
		"a@web.ma":     true,
		"a@nowhere.ma": false,
		"a@":           false,
		"no-at-sign":   false,
	}
	for email, want := range tests {
		if got := c.IsEmailDomainValid(ctx, email); got != want {
			t.Errorf("IsEmailDomainValid(%q) = %v, want %v", email, got, want)
		}
	}
}
