package ovs

import (
	"Topolab/api"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestControllerTarget(t *testing.T) {
	tests := []struct {
		c        api.Controller
		expected string
	}{
		{api.Controller{Name: "c0", IP: "127.0.0.1", Port: 6653, Protocol: "tcp"}, "tcp:127.0.0.1:6653"},
		{api.Controller{Name: "c0", IP: "127.0.0.1", Port: 6653}, "tcp:127.0.0.1:6653"},
		{api.Controller{IP: "10.0.0.254", Port: 6633, Protocol: "ssl"}, "ssl:10.0.0.254:6633"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, ControllerTarget(tt.c))
		})
	}
}

func TestGetPortId(t *testing.T) {
	om := NewOvsManager(zap.NewNop(), nil, "secure")

	var got []string
	om.vsctl = func(args ...string) (string, error) {
		got = args
		return "3", nil
	}
	id, err := om.GetPortId("s1-eth3")
	require.NoError(t, err)
	assert.Equal(t, 3, id)
	assert.Equal(t, []string{"get", "Interface", "s1-eth3", "ofport"}, got)

	om.vsctl = func(args ...string) (string, error) { return "[]", nil }
	_, err = om.GetPortId("s1-eth3")
	assert.Error(t, err)

	om.vsctl = func(args ...string) (string, error) { return "", errors.New("no such interface") }
	_, err = om.GetPortId("s1-eth3")
	assert.Error(t, err)
}

func TestRequestOfport(t *testing.T) {
	om := NewOvsManager(zap.NewNop(), nil, "secure")

	var calls [][]string
	assigned := "2"
	om.vsctl = func(args ...string) (string, error) {
		calls = append(calls, args)
		if args[0] == "get" {
			return assigned, nil
		}
		return "", nil
	}

	require.NoError(t, om.requestOfport("s1", "s1-eth2", 2))
	assert.Equal(t, [][]string{
		{"set", "Interface", "s1-eth2", "ofport_request=2"},
		{"get", "Interface", "s1-eth2", "ofport"},
	}, calls)

	assigned = "5"
	err := om.requestOfport("s1", "s1-eth2", 2)
	assert.ErrorIs(t, err, ErrOfportMismatch)
	assert.Contains(t, err.Error(), "got 5, requested 2")

	om.vsctl = func(args ...string) (string, error) { return "", errors.New("no such interface") }
	assert.Error(t, om.requestOfport("s1", "s1-eth2", 2))
}
