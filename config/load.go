package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/ini.v1"
)

func errConfigParsef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfigParse, fmt.Sprintf(format, args...))
}

// readFirstAvailable implements the precedence of spec.md §4.1 (c)-(e):
// an explicit path (from SetFilename), then lsl_api.cfg in the working
// directory, then ~/lsl_api/lsl_api.cfg, then the system config
// directory. A missing file at any step is not an error; returning an
// empty string means "use defaults".
func readFirstAvailable(explicitPath string) (string, error) {
	var candidates []string
	if explicitPath != "" {
		candidates = append(candidates, explicitPath)
	}
	candidates = append(candidates, "lsl_api.cfg")
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, "lsl_api", "lsl_api.cfg"))
	}
	candidates = append(candidates, filepath.Join(systemConfigDir(), "lsl_api.cfg"))

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err == nil {
			logger.Debug("loaded configuration file", "path", path)
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			logger.Warn("could not read candidate config file", "path", path, "error", err)
		}
	}
	logger.Debug("no configuration file found, using defaults")
	return "", nil
}

func systemConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("ProgramData"), "lsl_api")
	}
	return "/etc/lsl_api"
}

func splitAndTrim(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func warnUnknownKeys(section *ini.Section, known map[string]bool) {
	for _, key := range section.Keys() {
		if !known[strings.ToLower(key.Name())] {
			logger.Warn("ignoring unknown config key", "section", section.Name(), "key", key.Name())
		}
	}
}

// parse builds a Store from an INI document, applying defaults for
// anything absent or blank. An empty document yields an all-defaults
// Store.
func parse(raw string) (*Store, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{Insensitive: true, AllowBooleanKeys: true}, []byte(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	s := &Store{
		BasePort:         16572,
		PortRange:        32,
		AllowRandomPorts: true,
		MulticastPort:    16571,
		IPv6:             IPv6Allow,
		Scope:            ScopeSite,
		TTLOverride:      -1,
		SessionID:        "default",
		Tuning:           defaultTuning(),
	}
	s.MachineAddresses = defaultAddresses[ScopeMachine]
	s.LinkAddresses = defaultAddresses[ScopeLink]
	s.SiteAddresses = defaultAddresses[ScopeSite]
	s.OrganizationAddresses = defaultAddresses[ScopeOrganization]
	s.GlobalAddresses = defaultAddresses[ScopeGlobal]

	ports := cfg.Section("ports")
	warnUnknownKeys(ports, map[string]bool{
		"baseport": true, "portrange": true, "allowrandomports": true,
		"multicastport": true, "ipv6": true,
	})
	s.BasePort = uint16(ports.Key("BasePort").MustUint(uint(s.BasePort)))
	s.PortRange = uint16(ports.Key("PortRange").MustUint(uint(s.PortRange)))
	s.AllowRandomPorts = ports.Key("AllowRandomPorts").MustBool(s.AllowRandomPorts)
	s.MulticastPort = uint16(ports.Key("MulticastPort").MustUint(uint(s.MulticastPort)))
	if v := ports.Key("IPv6").String(); v != "" {
		mode, err := parseIPv6Mode(strings.ToLower(v))
		if err != nil {
			return nil, err
		}
		s.IPv6 = mode
	}

	mcast := cfg.Section("multicast")
	warnUnknownKeys(mcast, map[string]bool{
		"resolvescope": true, "listenaddress": true, "ttloverride": true,
		"machineaddresses": true, "linkaddresses": true, "siteaddresses": true,
		"organizationaddresses": true, "globaladdresses": true,
	})
	if v := mcast.Key("ResolveScope").String(); v != "" {
		scope, err := parseScope(strings.ToLower(v))
		if err != nil {
			return nil, err
		}
		s.Scope = scope
	}
	s.ListenAddress = mcast.Key("ListenAddress").String()
	s.TTLOverride = mcast.Key("TTLOverride").MustInt(-1)
	if v := mcast.Key("MachineAddresses").String(); v != "" {
		s.MachineAddresses = splitAndTrim(v)
	}
	if v := mcast.Key("LinkAddresses").String(); v != "" {
		s.LinkAddresses = splitAndTrim(v)
	}
	if v := mcast.Key("SiteAddresses").String(); v != "" {
		s.SiteAddresses = splitAndTrim(v)
	}
	if v := mcast.Key("OrganizationAddresses").String(); v != "" {
		s.OrganizationAddresses = splitAndTrim(v)
	}
	if v := mcast.Key("GlobalAddresses").String(); v != "" {
		s.GlobalAddresses = splitAndTrim(v)
	}

	lab := cfg.Section("lab")
	warnUnknownKeys(lab, map[string]bool{"sessionid": true, "knownpeers": true})
	if v := lab.Key("SessionID").String(); v != "" {
		s.SessionID = v
	}
	s.KnownPeers = splitAndTrim(lab.Key("KnownPeers").String())

	tuning := cfg.Section("tuning")
	warnUnknownKeys(tuning, map[string]bool{
		"multicastminrtt": true, "multicastmaxrtt": true, "unicastminrtt": true,
		"unicastmaxrtt": true, "continuousresolveinterval": true,
		"peerlookuptimeout": true, "maxcachedqueries": true,
	})
	s.Tuning.MulticastMinRTT = secondsKey(tuning, "MulticastMinRTT", s.Tuning.MulticastMinRTT)
	s.Tuning.MulticastMaxRTT = secondsKey(tuning, "MulticastMaxRTT", s.Tuning.MulticastMaxRTT)
	s.Tuning.UnicastMinRTT = secondsKey(tuning, "UnicastMinRTT", s.Tuning.UnicastMinRTT)
	s.Tuning.UnicastMaxRTT = secondsKey(tuning, "UnicastMaxRTT", s.Tuning.UnicastMaxRTT)
	s.Tuning.ContinuousResolveInterval = secondsKey(tuning, "ContinuousResolveInterval", s.Tuning.ContinuousResolveInterval)
	s.Tuning.PeerLookupTimeout = secondsKey(tuning, "PeerLookupTimeout", s.Tuning.PeerLookupTimeout)
	s.Tuning.MaxCachedQueries = tuning.Key("MaxCachedQueries").MustInt(s.Tuning.MaxCachedQueries)

	if !s.AllowIPv4() && !s.AllowIPv6() {
		return nil, fmt.Errorf("%w: both IPv4 and IPv6 disabled", ErrConfigInvalid)
	}
	if len(s.MulticastAddresses()) == 0 {
		return nil, fmt.Errorf("%w: no usable multicast address", ErrConfigInvalid)
	}

	return s, nil
}

// secondsKey reads an INI key as a plain float number of seconds and
// returns it as a time.Duration, routing through Seconds so the INI
// and JSON tuning representations stay governed by one conversion.
func secondsKey(section *ini.Section, name string, fallback time.Duration) time.Duration {
	f := section.Key(name).MustFloat64(fallback.Seconds())
	return Seconds(time.Duration(f * float64(time.Second))).Duration()
}
