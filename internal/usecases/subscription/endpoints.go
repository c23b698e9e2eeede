package subscription

import (
	"net/url"

	"github.com/monesting/notification-store/internal/domain/entities"
)

// endpointHosts returns the push service host of each descriptor that
// follows the Push API shape. Other descriptors are reported as "opaque".
// Only hosts are returned so that capability URLs never reach the logs.
func endpointHosts(subs entities.Subscriptions) []string {
	hosts := make([]string, 0, len(subs))
	for _, s := range subs {
		wp, err := s.WebPush()
		if err != nil {
			hosts = append(hosts, "opaque")
			continue
		}
		u, err := url.Parse(wp.Endpoint)
		if err != nil || u.Host == "" {
			hosts = append(hosts, "opaque")
			continue
		}
		hosts = append(hosts, u.Host)
	}
	return hosts
}
