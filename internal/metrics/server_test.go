// SPDX-License-Identifier: AGPL-3.0-or-later
// dumphfdl-go - an HFDL datalink receiver and decoder

package metrics_test

import (
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/dumphfdl/dumphfdl-go/internal/config"
	"github.com/dumphfdl/dumphfdl-go/internal/metrics"
)

func TestCreateMetricsServerDisabledReturnsNil(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{
		Metrics: config.Metrics{
			Enabled: false,
		},
	}
	if err := metrics.CreateMetricsServer(cfg); err != nil {
		t.Fatalf("expected nil error when metrics disabled, got: %v", err)
	}
}

func TestCreateMetricsServerPortInUseReturnsError(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port

	cfg := &config.Config{
		Metrics: config.Metrics{
			Enabled: true,
			Bind:    "127.0.0.1",
			Port:    port,
		},
	}

	err = metrics.CreateMetricsServer(cfg)
	if err == nil {
		t.Fatal("expected error when port is already in use, got nil")
	}

	expectedAddr := "127.0.0.1:" + strconv.Itoa(port)
	if !strings.Contains(err.Error(), expectedAddr) {
		t.Errorf("expected error to mention address %q, got: %v", expectedAddr, err)
	}
}

func TestCreateMetricsServerBindsAndReturns(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	cfg := &config.Config{
		Metrics: config.Metrics{
			Enabled: true,
			Bind:    "127.0.0.1",
			Port:    port,
		},
	}

	if err := metrics.CreateMetricsServer(cfg); err != nil {
		t.Fatalf("expected nil error binding free port, got: %v", err)
	}
}
