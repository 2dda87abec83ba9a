package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckIpv4CIDR(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"10.0.2.100/16", true},
		{"192.168.0.1/27", true},
		{"10.0.0.1/8", true},
		{"0.0.0.0/0", true},
		{"0.0.0.0", false},
		{"10.0.0.1", false},
		{"10.0.0.256/8", false},
		{"10.0.0.1/33", false},
		{"10.0.0/8", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckIpv4CIDR(tt.input))
		})
	}
}

func TestCheckMac(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"ea:e9:78:fb:fd:01", true},
		{"EA:E9:78:FB:FD:05", true},
		{"ea-e9-78-fb-fd-01", false},
		{"ea:e9:78:fb:fd", false},
		{"ea:e9:78:fb:fd:0g", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, CheckMac(tt.input))
		})
	}
}

func TestAutoIpv4(t *testing.T) {
	assert.Equal(t, "10.0.0.1/8", AutoIpv4(1))
	assert.Equal(t, "10.0.1.0/8", AutoIpv4(256))
	assert.Equal(t, "", AutoIpv4(0))
	assert.True(t, CheckIpv4CIDR(AutoIpv4(5)))
}

func TestSplitCIDR(t *testing.T) {
	assert.Equal(t, "10.0.2.100", SplitCIDR("10.0.2.100/16"))
	assert.Equal(t, "10.0.2.100", SplitCIDR("10.0.2.100"))
}
