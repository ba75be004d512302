package resolver

import (
	"context"
	"errors"
	"net"
	"time"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"

	"github.com/benbjohnson/clock"
	"github.com/lslkit/lslresolve/internal/lslog"
)

var attemptLogger = lslog.Logger("discovery/resolver/attempt")

// pollInterval bounds how long a single ReadFromUDP call blocks before
// attempt.run rechecks ctx/deadline. Real UDP I/O can't be driven by a
// mock clock, so this stays a small real-time constant rather than
// going through the injected clock.Clock.
const pollInterval = 100 * time.Millisecond

// attempt performs one burst of UDP queries on one IP protocol family
// over one endpoint list, per spec.md §4.3. It never blocks the
// scheduler goroutine: launchBurst runs one per protocol family in its
// own goroutine and collects their errors with a sync.WaitGroup.
type attempt struct {
	family     Family
	endpoints  []Endpoint
	query      string
	results    *resultMap
	deadline   time.Duration
	multicast  bool
	ttl        int
	listenAddr string
	clock      clock.Clock
}

func network(f Family) string {
	return string(f)
}

// run sends the query to every endpoint, then reads replies until the
// per-attempt deadline, ctx cancellation, or an unrecoverable socket
// error. It returns an error only for setup failures (opening a socket,
// or setting the multicast TTL/hop limit); a failed join of an
// individual multicast group is logged and skipped, and reply-parsing
// problems are logged and skipped, per spec.md §4.3's idempotent-insert
// contract.
func (a *attempt) run(ctx context.Context) error {
	if len(a.endpoints) == 0 {
		return nil
	}

	replyConn, err := net.ListenUDP(network(a.family), udpAddr(a.family, a.listenAddr, 0))
	if err != nil {
		return newAttemptError("listen-reply", string(a.family), err, "failed to open reply socket")
	}
	defer replyConn.Close()

	returnPort := replyConn.LocalAddr().(*net.UDPAddr).Port

	sendConn, err := net.ListenUDP(network(a.family), udpAddr(a.family, a.listenAddr, 0))
	if err != nil {
		return newAttemptError("listen-send", string(a.family), err, "failed to open send socket")
	}
	defer sendConn.Close()

	if a.multicast {
		if err := a.joinGroups(sendConn); err != nil {
			return newAttemptError("join-group", string(a.family), err, "failed to join multicast group")
		}
	}

	payload := encodeQuery(uint16(returnPort), a.query)
	for _, ep := range a.endpoints {
		if _, err := sendConn.WriteToUDPAddrPort(payload, ep.UDPAddrPort()); err != nil {
			attemptLogger.Warn("query send failed", "endpoint", ep.String(), "error", err)
		}
	}

	return a.collectReplies(ctx, replyConn)
}

func (a *attempt) collectReplies(ctx context.Context, conn *net.UDPConn) error {
	deadline := a.clock.Timer(a.deadline)
	defer deadline.Stop()

	buf := make([]byte, 64*1024)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-deadline.C:
			return nil
		default:
		}

		conn.SetReadDeadline(time.Now().Add(pollInterval))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if isTimeoutErr(err) {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			attemptLogger.Warn("reply read failed", "family", a.family, "error", err)
			return nil
		}

		shortinfo, serialized, err := decodeReply(buf[:n])
		if err != nil {
			attemptLogger.Warn("discarding malformed reply", "error", err)
			continue
		}
		a.results.upsert(StreamInfo{Identity: StreamIdentity(shortinfo), Serialized: serialized})
	}
}

func (a *attempt) joinGroups(conn *net.UDPConn) error {
	switch a.family {
	case FamilyV4:
		pc := ipv4.NewPacketConn(conn)
		for _, ep := range a.endpoints {
			if err := pc.JoinGroup(nil, &net.UDPAddr{IP: ep.Addr.AsSlice()}); err != nil {
				attemptLogger.Warn("multicast join failed", "group", ep.Addr, "error", err)
				continue
			}
		}
		return pc.SetMulticastTTL(a.ttl)
	case FamilyV6:
		pc := ipv6.NewPacketConn(conn)
		for _, ep := range a.endpoints {
			if err := pc.JoinGroup(nil, &net.UDPAddr{IP: ep.Addr.AsSlice()}); err != nil {
				attemptLogger.Warn("multicast join failed", "group", ep.Addr, "error", err)
				continue
			}
		}
		return pc.SetMulticastHopLimit(a.ttl)
	default:
		return nil
	}
}

func udpAddr(family Family, listenAddr string, port int) *net.UDPAddr {
	if listenAddr != "" {
		if ip := net.ParseIP(listenAddr); ip != nil {
			return &net.UDPAddr{IP: ip, Port: port}
		}
	}
	if family == FamilyV6 {
		return &net.UDPAddr{IP: net.IPv6unspecified, Port: port}
	}
	return &net.UDPAddr{IP: net.IPv4zero, Port: port}
}

func isTimeoutErr(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
