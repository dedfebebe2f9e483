package domain

import (
	"errors"
	"testing"
)

func TestGatewayErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewGatewayError(GatewayServiceUnavailable, 0, "refused", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}

	var gerr *GatewayError
	if !errors.As(error(err), &gerr) {
		t.Fatal("expected errors.As to match *GatewayError")
	}
	if gerr.Kind != GatewayServiceUnavailable {
		t.Errorf("unexpected kind %s", gerr.Kind)
	}
}

func TestGatewayErrorMessages(t *testing.T) {
	cases := []struct {
		err  *GatewayError
		want string
	}{
		{NewGatewayError(GatewayServiceUnavailable, 0, "refused", nil), "completion service is not running: refused"},
		{NewGatewayError(GatewayUpstream, 502, "bad gateway", nil), "completion service error (http 502): bad gateway"},
		{NewGatewayError(GatewayTransport, 0, "timeout", nil), "completion service transport failure: timeout"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("want %q, got %q", c.want, got)
		}
	}
}
