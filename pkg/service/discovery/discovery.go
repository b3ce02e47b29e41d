// Labelprint
// Copyright (c) 2026 The Labelprint Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Labelprint.
//
// Labelprint is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Labelprint is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Labelprint.  If not, see <http://www.gnu.org/licenses/>.

// Package discovery advertises the print API over mDNS so tablets and
// POS terminals on the LAN can find the printer without an IP address.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ZaparooProject/labelprint/pkg/config"
	"github.com/ZaparooProject/labelprint/pkg/helpers/syncutil"
	"github.com/grandcat/zeroconf"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const ServiceType = "_labelprint._tcp"

const (
	retryInterval    = 30 * time.Second
	maxRetryDuration = 5 * time.Minute
)

var virtualInterfacePrefixes = []string{
	"docker", "br-", "veth", "virbr", "lxc", "lxd",
	"cni", "flannel", "cali", "tunl", "wg",
}

type server interface {
	Shutdown()
}

type registerFunc func(instance, service, domain string, port int, txt []string, ifaces []net.Interface) (server, error)

func zeroconfRegister(
	instance, service, domain string,
	port int,
	txt []string,
	ifaces []net.Interface,
) (server, error) {
	s, err := zeroconf.Register(instance, service, domain, port, txt, ifaces)
	if err != nil {
		return nil, fmt.Errorf("zeroconf register: %w", err)
	}
	return s, nil
}

// Service advertises one API listener. Registration that fails because
// the network is not up yet is retried in the background for a while.
type Service struct {
	clock      clockwork.Clock
	server     server
	register   registerFunc
	interfaces func() ([]net.Interface, error)
	cancel     context.CancelFunc
	done       chan struct{}
	instance   string
	txt        []string
	cfg        config.Discovery
	mu         syncutil.Mutex
	stopped    bool
}

// New creates an advertiser. txt is published as the service's TXT
// records, e.g. "transport=bluez".
func New(cfg config.Discovery, txt []string) *Service {
	return &Service{
		cfg:        cfg,
		txt:        append([]string{"version=" + config.AppVersion}, txt...),
		clock:      clockwork.NewRealClock(),
		register:   zeroconfRegister,
		interfaces: net.Interfaces,
	}
}

// Start advertises addr, the address the API is listening on. Disabled
// discovery and loopback listeners are skipped without error.
func (s *Service) Start(addr net.Addr) error {
	if !s.cfg.Enabled {
		log.Info().Msg("mDNS discovery disabled by configuration")
		return nil
	}

	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return fmt.Errorf("cannot advertise non-TCP address %s", addr)
	}
	if tcp.IP.IsLoopback() {
		log.Info().Str("addr", tcp.String()).Msg("api only listens on loopback, not advertising")
		return nil
	}

	s.instance = s.instanceName()
	if s.tryRegister(tcp.Port) {
		return nil
	}

	log.Info().
		Dur("retry_interval", retryInterval).
		Dur("max_duration", maxRetryDuration).
		Msg("mDNS registration failed, retrying in background")

	ctx, cancel := context.WithTimeout(context.Background(), maxRetryDuration)
	s.mu.Lock()
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.retryLoop(ctx, tcp.Port)
	return nil
}

func (s *Service) tryRegister(port int) bool {
	all, err := s.interfaces()
	if err != nil {
		log.Debug().Err(err).Msg("failed to list network interfaces")
		return false
	}
	ifaces := filterInterfaces(all)
	if len(ifaces) == 0 {
		log.Debug().Msg("no network interface suitable for mDNS")
		return false
	}

	names := make([]string, 0, len(ifaces))
	for _, iface := range ifaces {
		names = append(names, iface.Name)
	}

	srv, err := s.register(s.instance, ServiceType, "local.", port, s.txt, ifaces)
	if err != nil {
		log.Debug().Err(err).Msg("mDNS registration attempt failed")
		return false
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		srv.Shutdown()
		return false
	}
	s.server = srv
	s.mu.Unlock()

	log.Info().
		Str("instance", s.instance).
		Int("port", port).
		Strs("interfaces", names).
		Msg("advertising print api over mDNS")
	return true
}

func (s *Service) retryLoop(ctx context.Context, port int) {
	defer close(s.done)
	ticker := s.clock.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			if s.tryRegister(port) {
				return
			}
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.Warn().Msg("mDNS registration gave up, discovery unavailable")
			}
			return
		}
	}
}

// Stop withdraws the advertisement. It is safe to call more than once and
// before Start.
func (s *Service) Stop() {
	s.mu.Lock()
	s.stopped = true
	cancel, done := s.cancel, s.done
	srv := s.server
	s.server = nil
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	if srv != nil {
		log.Debug().Msg("stopping mDNS advertising")
		srv.Shutdown()
	}
}

// InstanceName is the advertised name, empty before Start.
func (s *Service) InstanceName() string {
	return s.instance
}

func (s *Service) instanceName() string {
	if s.cfg.InstanceName != "" {
		return s.cfg.InstanceName
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		log.Warn().Err(err).Msg("no hostname, using default mDNS instance name")
		return config.AppName
	}
	return host
}

// filterInterfaces keeps interfaces that are up, multicast capable and
// neither loopback nor a container or VPN bridge.
func filterInterfaces(ifaces []net.Interface) []net.Interface {
	var out []net.Interface
	for _, iface := range ifaces {
		switch {
		case iface.Flags&net.FlagUp == 0,
			iface.Flags&net.FlagLoopback != 0,
			iface.Flags&net.FlagMulticast == 0,
			isVirtualInterface(iface.Name):
			continue
		}
		out = append(out, iface)
	}
	return out
}

func isVirtualInterface(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range virtualInterfacePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
