package ping

import (
	"context"
	"log"
	"net/url"
	"sync/atomic"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

// PingHost sends ICMP pings to the target and returns true if reachable.
func PingHost(target string) bool {
	pinger, err := probing.NewPinger(target)
	if err != nil {
		log.Printf("[ping] failed to create pinger for %s: %v", target, err)
		return false
	}
	pinger.Count = 3
	pinger.Timeout = 5 * time.Second
	pinger.SetPrivileged(true)
	if err := pinger.Run(); err != nil {
		return false
	}
	return pinger.Statistics().PacketsRecv > 0
}

// Prober periodically probes the outage backend host so the status endpoint
// can tell users whether sector data is likely stale.
type Prober struct {
	host      string
	reachable atomic.Bool
}

// NewProber creates a prober for the given host. If host is empty it is
// derived from the backend base URL.
func NewProber(host, apiBaseURL string) *Prober {
	if host == "" {
		if u, err := url.Parse(apiBaseURL); err == nil {
			host = u.Hostname()
		}
	}
	p := &Prober{host: host}
	// Assume reachable until the first probe says otherwise.
	p.reachable.Store(true)
	return p
}

// Reachable returns the last probe result.
func (p *Prober) Reachable() bool {
	return p.reachable.Load()
}

// Start probes every intervalSec seconds until ctx is canceled.
func (p *Prober) Start(ctx context.Context, intervalSec int) {
	if p.host == "" {
		log.Println("[ping] no probe host configured, prober disabled")
		return
	}
	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			up := PingHost(p.host)
			if up != p.reachable.Load() {
				log.Printf("[ping] backend %s reachability changed: %v", p.host, up)
			}
			p.reachable.Store(up)
		}
	}
}
