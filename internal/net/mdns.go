package net

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"

	"BezierBoard/internal/logging"
)

const serviceType = "_bezierboard._tcp"

// Advertise publishes a board hub listening on port over mDNS. Close the
// returned server to withdraw it.
func Advertise(port int) (*mdns.Server, error) {
	service, err := newService(port, []net.IP{firstIPv4()})
	if err != nil {
		return nil, err
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("starting mDNS server: %w", err)
	}
	logging.Logger().Info("advertising board", "service", serviceType, "port", port)
	return server, nil
}

func newService(port int, ips []net.IP) (*mdns.MDNSService, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,        // instance name
		serviceType, // service
		"",          // domain, defaults to .local
		"",          // host name, defaults to the OS host name
		port,
		ips,
		[]string{"BezierBoard"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	return service, nil
}

// Browse looks for advertised boards for the given time and calls found with
// the share link of each one.
func Browse(timeout time.Duration, found func(link string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if link, ok := entryLink(e); ok {
				found(link)
			}
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("browsing for boards: %w", err)
	}
	return nil
}

// entryLink returns the share link of a discovered hub. Entries without an
// IPv4 address or port are not usable.
func entryLink(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return "", false
	}
	return Link(e.AddrV4.String(), e.Port), true
}
